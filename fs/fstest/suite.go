// Package fstest provides a conformance test suite for validating filesystem
// provider implementations against the core.FileSystem contract.
//
// The suite exercises paths, attribute reads, streaming reads, access
// checks, copy, move, delete, and path matchers. Providers hand the suite a
// Fixture: the filesystem, an empty base directory the tests may write
// under, and a core.TreeWriter used to create test data.
//
// Example usage:
//
//	func TestMyProvider(t *testing.T) {
//	    fstest.TestSuite(t, func(t *testing.T) fstest.Fixture[myprovider.Path] {
//	        fsys := myprovider.Mount(t)
//	        base := fsys.Path(t.TempDir())
//	        return fstest.Fixture[myprovider.Path]{FS: fsys, Base: base, Tree: fsys.Tree(base)}
//	    })
//	}
package fstest

import (
	"context"
	"io"
	"testing"

	"github.com/jmgilman/go/fs/core"
)

// Fixture is a filesystem under test together with an empty directory
// owned by the test.
type Fixture[P core.Path[P]] struct {
	// FS is the filesystem under test.
	FS core.FileSystem[P]

	// Base is an existing, empty, absolute directory.
	Base P

	// Tree writes test data below Base.
	Tree core.TreeWriter
}

// Join resolves a slash-separated name against Base.
func (fx Fixture[P]) Join(t *testing.T, name string) P {
	t.Helper()
	p, err := fx.Base.Resolve(fx.FS.Path(name))
	if err != nil {
		t.Fatalf("Resolve(%q): %v", name, err)
	}
	return p
}

// Config configures the test suite to match filesystem behavior characteristics.
type Config struct {
	// SameFileCopyIsNoop indicates copying or moving a path onto itself
	// succeeds without touching the file.
	SameFileCopyIsNoop bool

	// SkipTests lists specific test names to skip (for edge cases).
	// Format: "TestGroup/SubTest" (e.g., "ManageFS/MoveDirectory").
	SkipTests []string
}

// DefaultConfig returns configuration for POSIX-like providers.
func DefaultConfig() Config {
	return Config{SameFileCopyIsNoop: true}
}

func (c Config) shouldSkip(name string) bool {
	for _, skip := range c.SkipTests {
		if skip == name {
			return true
		}
	}
	return false
}

// run runs fn as subtest name of group unless it is skipped.
func (c Config) run(t *testing.T, group, name string, fn func(t *testing.T)) {
	t.Run(name, func(t *testing.T) {
		if c.shouldSkip(group + "/" + name) {
			t.Skip("Skipped by provider configuration")
		}
		fn(t)
	})
}

// TestSuite runs all conformance tests against a filesystem.
// newFixture should return a fresh, empty base directory for each call.
// Uses DefaultConfig().
func TestSuite[P core.Path[P]](t *testing.T, newFixture func(t *testing.T) Fixture[P]) {
	TestSuiteWithConfig(t, newFixture, DefaultConfig())
}

// TestSuiteWithConfig runs conformance tests with behavior configuration.
func TestSuiteWithConfig[P core.Path[P]](t *testing.T, newFixture func(t *testing.T) Fixture[P], config Config) {
	groups := []struct {
		name string
		fn   func(t *testing.T, fx Fixture[P], config Config)
	}{
		{"PathFS", TestPathFSWithConfig[P]},
		{"ReadFS", TestReadFSWithConfig[P]},
		{"ManageFS", TestManageFSWithConfig[P]},
		{"MatchFS", TestMatchFSWithConfig[P]},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if config.shouldSkip(g.name) {
				t.Skip("Skipped by provider configuration")
			}
			g.fn(t, newFixture(t), config)
		})
	}
}

// writeFile creates name below the fixture base with content.
func writeFile[P core.Path[P]](t *testing.T, fx Fixture[P], name string, content []byte) P {
	t.Helper()
	if err := fx.Tree.WriteFile(context.Background(), name, content, 0o644); err != nil {
		t.Fatalf("WriteFile(%s): setup failed: %v", name, err)
	}
	return fx.Join(t, name)
}

// mkdir creates name and its parents below the fixture base.
func mkdir[P core.Path[P]](t *testing.T, fx Fixture[P], name string) P {
	t.Helper()
	if err := fx.Tree.MkdirAll(context.Background(), name, 0o755); err != nil {
		t.Fatalf("MkdirAll(%s): setup failed: %v", name, err)
	}
	return fx.Join(t, name)
}

// readFile returns the content of p.
func readFile[P core.Path[P]](t *testing.T, fsys core.FileSystem[P], p P) ([]byte, error) {
	t.Helper()
	rc, err := fsys.NewReader(context.Background(), p)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			t.Errorf("Close(%s): got error %v", p, closeErr)
		}
	}()
	return io.ReadAll(rc)
}
