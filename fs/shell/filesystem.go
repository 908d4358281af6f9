package shell

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/fs/shell/internal/errs"
	"github.com/jmgilman/go/fs/shell/internal/glob"
	"github.com/jmgilman/go/fs/shell/internal/pathutil"
	"github.com/jmgilman/go/fs/shell/internal/stat"
	"github.com/pkg/sftp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Scheme is the URI scheme of shell filesystems.
const Scheme = "ssh.unix"

// FileSystem is a POSIX filesystem reached through a remote shell session.
// Every operation is one or more commands run on the session.
//
// A FileSystem is safe for concurrent use. Operations on different paths
// proceed independently.
type FileSystem struct {
	manager *Manager
	key     string
	uri     *url.URL

	session  exec.Session
	commands *exec.Commands
	config   Config
	logger   *zap.Logger
	metrics  *Metrics
	sftp     *sftp.Client

	defaultDir Path
	dialect    atomic.Pointer[stat.Dialect]

	mu       sync.Mutex
	services map[*WatchService]struct{}
	closed   atomic.Bool
}

func newFileSystem(m *Manager, key string, u *url.URL, session exec.Session, cfg Config) (*FileSystem, error) {
	f := &FileSystem{
		manager:  m,
		key:      key,
		uri:      u,
		session:  session,
		commands: exec.NewCommands(cfg.BinDir, cfg.Commands),
		config:   cfg,
		logger:   cfg.Logger.With(zap.String("mount", key)),
		metrics:  cfg.Metrics,
		services: make(map[*WatchService]struct{}),
	}

	dir := u.Path
	if dir == "" {
		dir = pathutil.Separator
	}
	f.defaultDir = parsePath(f, dir)
	if !f.defaultDir.IsAbsolute() {
		return nil, errs.InvalidInput("default directory must be absolute", core.ErrInvalidPath)
	}

	if cfg.Dialect != "" {
		d, _ := stat.ParseDialect(cfg.Dialect)
		f.dialect.Store(&d)
	}

	if cfg.Hybrid {
		client, err := newSFTPClient(session)
		if err != nil {
			return nil, err
		}
		f.sftp = client
	}

	return f, nil
}

// Path joins first and more with "/" and parses the result.
func (f *FileSystem) Path(first string, more ...string) Path {
	joined := first
	for _, m := range more {
		joined += pathutil.Separator + m
	}
	return parsePath(f, joined)
}

// Root returns "/".
func (f *FileSystem) Root() Path { return newPath(f, true, nil) }

// DefaultDirectory returns the directory relative paths resolve against.
func (f *FileSystem) DefaultDirectory() Path { return f.defaultDir }

// URI returns the mount URI.
func (f *FileSystem) URI() string { return f.uri.String() }

// Separator returns "/".
func (f *FileSystem) Separator() string { return pathutil.Separator }

// Type returns core.FSTypeRemote.
func (f *FileSystem) Type() core.FSType { return core.FSTypeRemote }

// SupportedViews lists the attribute views accepted by SetAttribute.
func (f *FileSystem) SupportedViews() []string { return []string{"basic", "posix"} }

// Session returns the session commands are run on.
func (f *FileSystem) Session() exec.Session { return f.session }

// IsOpen reports whether Close has not been called.
func (f *FileSystem) IsOpen() bool { return !f.closed.Load() }

// PathMatcher compiles a "glob:" or "regex:" pattern. The matcher tests a
// path's canonical string in full.
func (f *FileSystem) PathMatcher(syntaxAndPattern string) (core.PathMatcher, error) {
	re, err := glob.Compile(syntaxAndPattern)
	switch {
	case err == nil:
		return matcher{re: re}, nil
	case errors.Is(err, glob.ErrUnsupportedSyntax):
		return nil, errs.Unsupported("pathMatcher", syntaxAndPattern)
	default:
		return nil, errs.InvalidInput("invalid path matcher", err)
	}
}

// FileStore is not supported.
func (f *FileSystem) FileStore(Path) error {
	return errs.Unsupported("fileStore", "")
}

// Close closes every watch service, the SFTP client, and the session, and
// removes the filesystem from its manager. Close is idempotent.
func (f *FileSystem) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.mu.Lock()
	services := make([]*WatchService, 0, len(f.services))
	for s := range f.services {
		services = append(services, s)
	}
	f.mu.Unlock()

	var err error
	for _, s := range services {
		err = multierr.Append(err, s.Close())
	}
	if f.sftp != nil {
		err = multierr.Append(err, f.sftp.Close())
	}
	err = multierr.Append(err, f.session.Close())

	if f.manager != nil {
		f.manager.remove(f.key, f)
	}
	f.logger.Debug("filesystem closed")
	return err
}

func (f *FileSystem) line(name string, args ...string) string {
	return f.commands.Line(name, args...)
}

// execute runs a command. A nonzero exit is returned as a result, not an
// error; errors are transport failures.
func (f *FileSystem) execute(ctx context.Context, name, command string) (*exec.Result, error) {
	if f.closed.Load() {
		return nil, errs.Closed(name, f.key)
	}

	f.logger.Debug("executing command", zap.String("command", command))
	start := time.Now()
	res, err := f.session.Execute(ctx, command)
	if err != nil {
		f.metrics.observeCommand(name, "error", time.Since(start))
		return nil, errs.Transport(command, err)
	}

	status := "ok"
	if res.ExitCode != 0 {
		status = "exit"
		f.logger.Debug("command exited nonzero",
			zap.String("command", command),
			zap.Int("exit_code", res.ExitCode),
			zap.String("stderr", res.Stderr),
		)
	}
	f.metrics.observeCommand(name, status, time.Since(start))
	return res, nil
}

// executeForStdout runs a command and fails with CommandFailed on a
// nonzero exit.
func (f *FileSystem) executeForStdout(ctx context.Context, name, command string) (string, error) {
	res, err := f.execute(ctx, name, command)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", errs.CommandFailed(command, res)
	}
	return res.Stdout, nil
}

// open starts a streaming command.
func (f *FileSystem) open(ctx context.Context, name, command string) (exec.Stream, error) {
	if f.closed.Load() {
		return nil, errs.Closed(name, f.key)
	}

	f.logger.Debug("opening stream", zap.String("command", command))
	st, err := f.session.Open(ctx, command)
	if err != nil {
		f.metrics.observeCommand(name, "error", 0)
		return nil, errs.Transport(command, err)
	}
	f.metrics.observeCommand(name, "ok", 0)
	return st, nil
}

// statDialect returns the memoized dialect, detecting it on first use.
// Concurrent first calls may both run detection.
func (f *FileSystem) statDialect(ctx context.Context) stat.Dialect {
	if d := f.dialect.Load(); d != nil {
		return *d
	}

	command := f.line("uname", "-s")
	res, err := f.execute(ctx, "uname", command)
	if err != nil {
		f.logger.Debug("dialect detection failed, assuming gnu", zap.Error(err))
		return stat.GNU
	}

	d := stat.GNU
	if res.ExitCode == 0 {
		d = stat.Detect(res.Stdout)
	}
	f.dialect.Store(&d)
	f.logger.Debug("detected stat dialect", zap.Stringer("dialect", d))
	return d
}

func (f *FileSystem) checkPath(op string, p Path) error {
	if p.fs != f {
		return errs.ProviderMismatch(op)
	}
	return nil
}

func (f *FileSystem) addService(s *WatchService) {
	f.mu.Lock()
	f.services[s] = struct{}{}
	f.mu.Unlock()
}

func (f *FileSystem) removeService(s *WatchService) {
	f.mu.Lock()
	delete(f.services, s)
	f.mu.Unlock()
}

func (f *FileSystem) String() string {
	return fmt.Sprintf("shell filesystem %s", f.URI())
}

var _ core.FileSystem[Path] = (*FileSystem)(nil)
