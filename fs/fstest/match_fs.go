package fstest

import (
	"errors"
	"testing"

	"github.com/jmgilman/go/fs/core"
)

// TestMatchFS tests glob and regex path matchers.
// Uses DefaultConfig().
func TestMatchFS[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	TestMatchFSWithConfig(t, fx, DefaultConfig())
}

// TestMatchFSWithConfig tests path matchers with behavior configuration.
func TestMatchFSWithConfig[P core.Path[P]](t *testing.T, fx Fixture[P], config Config) {
	config.run(t, "MatchFS", "Glob", func(t *testing.T) {
		testMatchFSPatterns(t, fx, []matchCase{
			{"glob:*.txt", []string{"a.txt"}, true},
			{"glob:*.txt", []string{"dir", "a.txt"}, false},
			{"glob:**.txt", []string{"dir", "a.txt"}, true},
			{"glob:*.{txt,md}", []string{"readme.md"}, true},
			{"glob:?.txt", []string{"ab.txt"}, false},
			{"glob:[abc].txt", []string{"b.txt"}, true},
			{"glob:[!abc].txt", []string{"b.txt"}, false},
		})
	})
	config.run(t, "MatchFS", "Regex", func(t *testing.T) {
		testMatchFSPatterns(t, fx, []matchCase{
			{"regex:[a-z]+\\.txt", []string{"notes.txt"}, true},
			{"regex:[a-z]+", []string{"notes.txt"}, false},
		})
	})
	config.run(t, "MatchFS", "UnknownSyntax", func(t *testing.T) {
		_, err := fx.FS.PathMatcher("xpath:/a")
		if !errors.Is(err, core.ErrUnsupported) {
			t.Errorf("PathMatcher(xpath:/a): got error %v, want core.ErrUnsupported", err)
		}
	})
	config.run(t, "MatchFS", "MissingSyntax", func(t *testing.T) {
		if _, err := fx.FS.PathMatcher("*.txt"); err == nil {
			t.Errorf("PathMatcher(*.txt): got nil error, want error")
		}
	})
}

type matchCase struct {
	pattern string
	path    []string
	want    bool
}

func testMatchFSPatterns[P core.Path[P]](t *testing.T, fx Fixture[P], cases []matchCase) {
	for _, c := range cases {
		m, err := fx.FS.PathMatcher(c.pattern)
		if err != nil {
			t.Errorf("PathMatcher(%s): got error %v, want nil", c.pattern, err)
			continue
		}
		p := fx.FS.Path(c.path[0], c.path[1:]...)
		if got := m.Match(p); got != c.want {
			t.Errorf("PathMatcher(%s).Match(%s): got %v, want %v", c.pattern, p, got, c.want)
		}
	}
}
