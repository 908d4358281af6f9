package exec

import (
	"os"
	"sort"
)

// localConfig holds the settings of a LocalSession.
type localConfig struct {
	shell      string
	dir        string
	env        map[string]string
	inheritEnv bool
}

func newLocalConfig() *localConfig {
	return &localConfig{
		shell: "/bin/sh",
		env:   make(map[string]string),
	}
}

// environ returns the process environment for a command. Without
// inheritance only PATH is carried over from the parent.
func (c *localConfig) environ() []string {
	var out []string
	if c.inheritEnv {
		out = os.Environ()
	} else {
		out = []string{"PATH=" + os.Getenv("PATH")}
	}
	keys := make([]string, 0, len(c.env))
	for k := range c.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+c.env[k])
	}
	return out
}

// LocalOption configures a LocalSession.
type LocalOption func(*localConfig)

// WithShell sets the interpreter used to run command lines. It is invoked as
// "<shell> -c <command>". Defaults to /bin/sh.
func WithShell(shell string) LocalOption {
	return func(c *localConfig) {
		c.shell = shell
	}
}

// WithDir sets the working directory for every command.
func WithDir(dir string) LocalOption {
	return func(c *localConfig) {
		c.dir = dir
	}
}

// WithEnv adds environment variables for every command.
func WithEnv(env map[string]string) LocalOption {
	return func(c *localConfig) {
		for k, v := range env {
			c.env[k] = v
		}
	}
}

// WithInheritEnv passes the parent process environment through to commands.
func WithInheritEnv() LocalOption {
	return func(c *localConfig) {
		c.inheritEnv = true
	}
}
