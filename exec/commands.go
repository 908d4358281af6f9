package exec

import (
	"path"
	"strings"
)

// Commands resolves logical command names (stat, mkdir, dd, ...) to the text
// placed at the start of a command line. An explicit override wins, then a
// binary directory prefix, then the bare name.
//
// A nil *Commands resolves every name to itself.
type Commands struct {
	binDir    string
	overrides map[string]string
}

// NewCommands creates a command table. binDir may be empty.
func NewCommands(binDir string, overrides map[string]string) *Commands {
	c := &Commands{binDir: binDir, overrides: make(map[string]string, len(overrides))}
	for k, v := range overrides {
		c.overrides[k] = v
	}
	return c
}

// Get returns the executable text for name.
func (c *Commands) Get(name string) string {
	if c == nil {
		return name
	}
	if v, ok := c.overrides[name]; ok {
		return v
	}
	if c.binDir != "" {
		return path.Join(c.binDir, name)
	}
	return name
}

// Line builds a command line from name and already-quoted arguments.
func (c *Commands) Line(name string, args ...string) string {
	if len(args) == 0 {
		return c.Get(name)
	}
	return c.Get(name) + " " + strings.Join(args, " ")
}
