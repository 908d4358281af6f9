package shell

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/shell/internal/errs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultPort is the SSH port used when the mount URI has none.
const DefaultPort = 22

// Manager owns the set of mounted filesystems, keyed by the base URI
// scheme://authority/. A base URI can be mounted once at a time.
type Manager struct {
	logger *zap.Logger

	mu     sync.Mutex
	mounts map[string]*FileSystem
}

// NewManager creates an empty manager. A nil logger disables logging.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger, mounts: make(map[string]*FileSystem)}
}

// Mount opens a session to the host in rawURI and returns a filesystem
// whose default directory is the URI path.
//
// The URI has the form ssh.unix://[user@]host[:port]/absolute/dir.
func (m *Manager) Mount(ctx context.Context, rawURI string, cfg Config) (*FileSystem, error) {
	u, key, err := parseMountURI(rawURI)
	if err != nil {
		return nil, err
	}

	if cfg.Logger == nil {
		cfg.Logger = m.logger
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Reserve the key so concurrent mounts of the same base fail fast
	// without holding the lock while dialing.
	m.mu.Lock()
	if _, exists := m.mounts[key]; exists {
		m.mu.Unlock()
		return nil, errs.AlreadyExists("mount", key)
	}
	m.mounts[key] = nil
	m.mu.Unlock()

	fs, err := m.open(ctx, u, key, cfg)

	m.mu.Lock()
	if err != nil {
		delete(m.mounts, key)
	} else {
		m.mounts[key] = fs
	}
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	m.logger.Info("mounted filesystem", zap.String("uri", u.Redacted()))
	return fs, nil
}

func (m *Manager) open(ctx context.Context, u *url.URL, key string, cfg Config) (*FileSystem, error) {
	target := Target{
		User:  u.User.Username(),
		Host:  u.Hostname(),
		Port:  DefaultPort,
		Proxy: cfg.Proxy,
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, errs.InvalidInput("invalid port", err)
		}
		target.Port = port
	}

	session, err := cfg.SessionFactory(ctx, target)
	if err != nil {
		return nil, errs.Transport("connect "+target.Addr(), err)
	}

	fs, err := newFileSystem(m, key, u, session, cfg)
	if err != nil {
		return nil, multierr.Append(err, session.Close())
	}
	return fs, nil
}

// Get returns the filesystem mounted for the base of rawURI.
func (m *Manager) Get(rawURI string) (*FileSystem, bool) {
	_, key, err := parseMountURI(rawURI)
	if err != nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fs := m.mounts[key]
	return fs, fs != nil
}

// Close closes every mounted filesystem.
func (m *Manager) Close() error {
	m.mu.Lock()
	mounted := make([]*FileSystem, 0, len(m.mounts))
	for _, fs := range m.mounts {
		if fs != nil {
			mounted = append(mounted, fs)
		}
	}
	m.mu.Unlock()

	var err error
	for _, fs := range mounted {
		err = multierr.Append(err, fs.Close())
	}
	return err
}

func (m *Manager) remove(key string, fs *FileSystem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mounts[key] == fs {
		delete(m.mounts, key)
	}
}

// parseMountURI validates rawURI and returns it with its registry key.
func parseMountURI(rawURI string) (*url.URL, string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, "", errs.InvalidInput("invalid mount uri", err)
	}
	if u.Scheme != Scheme {
		return nil, "", errors.Newf(errors.CodeInvalidInput, "unsupported scheme %q, want %q", u.Scheme, Scheme)
	}
	if u.Host == "" {
		return nil, "", errors.New(errors.CodeInvalidInput, "mount uri has no host")
	}
	base := url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host, Path: "/"}
	return u, base.String(), nil
}
