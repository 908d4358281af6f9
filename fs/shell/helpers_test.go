package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/exec/mocks"
	"github.com/jmgilman/go/fs/shell/internal/stat"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testMountURI = "ssh.unix://user@host:22/home/user"

// remote answers commands for a mocked session. Handlers registered later
// take precedence; unmatched commands exit 127.
type remote struct {
	mu       sync.Mutex
	handlers []func(cmd string) (*exec.Result, bool)
	commands []string
	streams  func(cmd string) (exec.Stream, error)
}

func newRemote() *remote { return &remote{} }

// handle answers commands for which match returns true.
func (r *remote) handle(match func(cmd string) bool, fn func(cmd string) *exec.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, func(cmd string) (*exec.Result, bool) {
		if !match(cmd) {
			return nil, false
		}
		return fn(cmd), true
	})
}

// on answers commands starting with prefix with a fixed exit code and
// stdout.
func (r *remote) on(prefix string, exitCode int, stdout string) {
	r.handle(hasPrefix(prefix), func(string) *exec.Result {
		return &exec.Result{ExitCode: exitCode, Stdout: stdout}
	})
}

func (r *remote) execute(_ context.Context, cmd string) (*exec.Result, error) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	handlers := append([]func(string) (*exec.Result, bool){}, r.handlers...)
	r.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		if res, ok := handlers[i](cmd); ok {
			return res, nil
		}
	}
	return &exec.Result{ExitCode: 127, Stderr: "command not found"}, nil
}

// ran returns every command seen so far.
func (r *remote) ran() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

// ranPrefix reports whether a command starting with prefix was run.
func (r *remote) ranPrefix(prefix string) bool {
	for _, c := range r.ran() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (r *remote) session() *mocks.SessionMock {
	return &mocks.SessionMock{
		ExecuteFunc: r.execute,
		OpenFunc: func(ctx context.Context, cmd string) (exec.Stream, error) {
			r.mu.Lock()
			r.commands = append(r.commands, cmd)
			open := r.streams
			r.mu.Unlock()
			if open == nil {
				return nil, fmt.Errorf("no stream for %q", cmd)
			}
			return open(cmd)
		},
		CloseFunc: func() error { return nil },
	}
}

func hasPrefix(prefix string) func(string) bool {
	return func(cmd string) bool { return strings.HasPrefix(cmd, prefix) }
}

func hasAll(parts ...string) func(string) bool {
	return func(cmd string) bool {
		for _, p := range parts {
			if !strings.Contains(cmd, p) {
				return false
			}
		}
		return true
	}
}

// mount mounts testMountURI on a fresh manager backed by r.
func mount(t *testing.T, r *remote, cfg Config) *FileSystem {
	t.Helper()
	if cfg.SessionFactory == nil {
		sess := r.session()
		cfg.SessionFactory = func(context.Context, Target) (exec.Session, error) { return sess, nil }
	}
	if cfg.Dialect == "" {
		cfg.Dialect = "gnu"
	}
	cfg.Logger = zaptest.NewLogger(t)

	m := NewManager(nil)
	fsys, err := m.Mount(context.Background(), testMountURI, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return fsys
}

// stat command prefixes for the GNU dialect.
var (
	statBasic = stat.Command(stat.GNU, "stat", stat.Basic, false)
	statPosix = stat.Command(stat.GNU, "stat", stat.Posix, false)
)

func record(fields ...any) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprint(f)
	}
	return strings.Join(parts, stat.UnitSeparator)
}

// basicRecord renders a record for stat.Basic.
func basicRecord(typ string, key, size, mtime int64) string {
	return record(0, key, typ, mtime, mtime, size)
}

// posixRecord renders a record for stat.Posix.
func posixRecord(typ string, key, size, mtime int64, perm string) string {
	return record(0, key, typ, mtime, mtime, size, perm, "user", "staff")
}

// allRecord renders a newline-terminated record for stat.All.
func allRecord(name string, size, mtime int64) string {
	return record(0, "staff", 1, mtime, mtime, mtime, name, "user", "-rw-r--r--", size, "regular file") + "\n"
}

// onStat answers basic and posix stat of quoted path q.
func (r *remote) onStat(q string, typ string, key, size int64) {
	r.handle(hasAll(statBasic, q), func(string) *exec.Result {
		return &exec.Result{Stdout: basicRecord(typ, key, size, 1700000000)}
	})
	perm := "-rw-r--r--"
	if typ == "directory" {
		perm = "drwxr-xr-x"
	}
	r.handle(hasAll(statPosix, q), func(string) *exec.Result {
		return &exec.Result{Stdout: posixRecord(typ, key, size, 1700000000, perm)}
	})
	r.on(`test -e `+q, 0, "")
	r.on(`test -r `+q, 0, "")
	r.on(`test -w `+q, 0, "")
}

// onMissing makes q absent.
func (r *remote) onMissing(q string) {
	r.handle(hasAll("stat ", q), func(string) *exec.Result {
		return &exec.Result{ExitCode: 1, Stderr: "No such file or directory"}
	})
	r.on(`test -e `+q, 1, "")
}

// stdinBuffer records what is written to a stream's stdin.
type stdinBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *stdinBuffer) Close() error {
	b.closed = true
	return nil
}

// newStream returns a stream that prints stdout and exits with exitCode.
func newStream(stdout string, exitCode int) (*mocks.StreamMock, *stdinBuffer) {
	in := &stdinBuffer{}
	out := strings.NewReader(stdout)
	return &mocks.StreamMock{
		StdinFunc:  func() io.WriteCloser { return in },
		StdoutFunc: func() io.Reader { return out },
		WaitFunc: func() (*exec.Result, error) {
			return &exec.Result{ExitCode: exitCode}, nil
		},
		CloseFunc: func() error { return nil },
	}, in
}
