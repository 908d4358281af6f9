package cli

import (
	"context"
	"os"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/fs/shell"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/ssh"
)

// sessionFactoryFunc builds the session factory from the parsed flags.
type sessionFactoryFunc func(opts *globalOptions) (shell.SessionFactory, error)

// defaultSessionFactory dials over SSH, authenticating with the agent and,
// when asked or when no agent is running, a terminal password prompt.
func defaultSessionFactory(opts *globalOptions) (shell.SessionFactory, error) {
	hostKey, err := exec.HostKeyCallback(opts.knownHosts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to load known hosts")
	}

	var auth []ssh.AuthMethod
	if agent, err := exec.AgentAuth(); err == nil {
		auth = append(auth, agent)
	}
	if opts.password || len(auth) == 0 {
		auth = append(auth, exec.PasswordPrompt("Password: ", os.Stdin, os.Stderr))
	}
	return shell.SSHSessionFactory(hostKey, auth...), nil
}

// mounter mounts the filesystem named by the global flags.
type mounter struct {
	opts    *globalOptions
	factory sessionFactoryFunc
}

// mount returns the mounted filesystem and a function that unmounts it.
func (m *mounter) mount(ctx context.Context) (*shell.FileSystem, func(), error) {
	if m.opts.mount == "" {
		return nil, nil, errors.New(errors.CodeInvalidConfig, "no mount URI: use --mount or "+EnvPrefix+"_MOUNT")
	}

	cfg, err := m.config()
	if err != nil {
		return nil, nil, err
	}

	logger, err := m.logger()
	if err != nil {
		return nil, nil, err
	}
	cfg.Logger = logger

	cfg.SessionFactory, err = m.factory(m.opts)
	if err != nil {
		return nil, nil, err
	}

	manager := shell.NewManager(logger)
	fsys, err := manager.Mount(ctx, m.opts.mount, cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}

	cleanup := func() {
		if err := manager.Close(); err != nil {
			logger.Warn("failed to unmount", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return fsys, cleanup, nil
}

func (m *mounter) config() (shell.Config, error) {
	if m.opts.configFile != "" {
		return shell.LoadConfigFile(m.opts.configFile)
	}
	return shell.LoadConfigFromEnv(EnvPrefix)
}

func (m *mounter) logger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if m.opts.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build logger")
	}
	return logger, nil
}
