package shell

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/fs/shell/internal/stat"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"gopkg.in/yaml.v3"
)

// WatchStrategy selects how a watch service detects changes.
type WatchStrategy string

const (
	// WatchPolling re-stats each watched directory on an interval.
	WatchPolling WatchStrategy = "polling"
	// WatchInotify streams events from inotifywait on the remote host.
	WatchInotify WatchStrategy = "inotify"
)

// DefaultPollInterval is the polling interval used when none is configured.
const DefaultPollInterval = 10 * time.Minute

// WatchConfig configures watch services created by a filesystem.
type WatchConfig struct {
	// Strategy is polling or inotify. Default: polling.
	Strategy WatchStrategy `envconfig:"STRATEGY" yaml:"strategy"`

	// Interval is the polling period. Default: 10 minutes.
	Interval time.Duration `envconfig:"INTERVAL" yaml:"interval"`
}

// Target identifies the remote endpoint of a mount.
type Target struct {
	User  string
	Host  string
	Port  int
	Proxy string
}

// Addr returns host:port.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// SessionFactory opens the session a filesystem issues its commands on.
type SessionFactory func(ctx context.Context, target Target) (exec.Session, error)

// Config holds shell filesystem configuration.
type Config struct {
	// SessionFactory opens the remote session. Required.
	SessionFactory SessionFactory `yaml:"-" ignored:"true"`

	// Proxy is an optional proxy URL (socks5://host:port) passed to the
	// session factory.
	Proxy string `envconfig:"PROXY" yaml:"proxy"`

	// BinDir, when set, prefixes every command that has no override.
	BinDir string `envconfig:"BIN_DIR" yaml:"bin_dir"`

	// Commands replaces individual commands, e.g. {"stat": "gstat"}.
	Commands map[string]string `envconfig:"COMMANDS" yaml:"commands"`

	// Dialect forces the stat dialect ("gnu" or "bsd") instead of
	// detecting it with uname.
	Dialect string `envconfig:"DIALECT" yaml:"dialect"`

	// Watch configures watch services.
	Watch WatchConfig `envconfig:"WATCH" yaml:"watch"`

	// Hybrid creates directories over SFTP when the session is SSH.
	Hybrid bool `envconfig:"HYBRID" yaml:"hybrid"`

	// Logger receives debug output for every command. Default: no-op.
	Logger *zap.Logger `yaml:"-" ignored:"true"`

	// Metrics, when set, records command and watch activity.
	Metrics *Metrics `yaml:"-" ignored:"true"`
}

// LoadConfigFromEnv reads configuration from environment variables with the
// given prefix, e.g. SHELLFS_BIN_DIR and SHELLFS_WATCH_INTERVAL.
func LoadConfigFromEnv(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, errors.CodeInvalidConfig, "failed to load config from environment")
	}
	return cfg, nil
}

// LoadConfigFile reads configuration from a YAML file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, errors.CodeInvalidConfig, "failed to read config file %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, errors.CodeInvalidConfig, "failed to parse config file %s", path)
	}
	return cfg, nil
}

// validate checks the configuration and fills in defaults.
func (c *Config) validate() error {
	if c.SessionFactory == nil {
		return errors.New(errors.CodeInvalidConfig, "session factory is required")
	}

	if c.Dialect != "" {
		if _, err := stat.ParseDialect(c.Dialect); err != nil {
			return errors.Wrap(err, errors.CodeInvalidConfig, "invalid dialect")
		}
	}

	switch c.Watch.Strategy {
	case "":
		c.Watch.Strategy = WatchPolling
	case WatchPolling, WatchInotify:
	default:
		return errors.Newf(errors.CodeInvalidConfig, "unknown watch strategy %q", c.Watch.Strategy)
	}

	if c.Watch.Interval < 0 {
		return errors.New(errors.CodeInvalidConfig, "watch interval must not be negative")
	}
	if c.Watch.Interval == 0 {
		c.Watch.Interval = DefaultPollInterval
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return nil
}

// SSHSessionFactory returns a factory that dials the target over SSH with
// the given host key check and auth methods, honouring Target.Proxy.
func SSHSessionFactory(hostKey ssh.HostKeyCallback, auth ...ssh.AuthMethod) SessionFactory {
	return func(ctx context.Context, target Target) (exec.Session, error) {
		var opts []exec.SSHOption
		if target.Proxy != "" {
			opts = append(opts, exec.WithProxyURL(target.Proxy))
		}
		sess, err := exec.DialSSH(ctx, target.Addr(), exec.ClientConfig(target.User, hostKey, auth...), opts...)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", target.Addr(), err)
		}
		return sess, nil
	}
}
