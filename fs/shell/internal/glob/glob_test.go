package glob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{pattern: "*.txt", want: `^[^/]*\.txt$`},
		{pattern: "**/*.txt", want: `^.*/[^/]*\.txt$`},
		{pattern: "a?c", want: `^a.c$`},
		{pattern: "*.{java,go}", want: `^[^/]*\.(?:java|go)$`},
		{pattern: "[!abc]", want: `^[^abc]$`},
		{pattern: "[^abc]", want: `^[abc^]$`},
		{pattern: `[a\b]`, want: `^[a\\b]$`},
		{pattern: `a\*`, want: `^a\*$`},
		{pattern: `\[x`, want: `^\[x$`},
		{pattern: "a+(b)", want: `^a\+\(b)$`},
		{pattern: "*", want: `^[^/]*$`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Translate(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslate_Errors(t *testing.T) {
	for _, pattern := range []string{"{a,b", "[abc", `abc\`} {
		t.Run(pattern, func(t *testing.T) {
			_, err := Translate(pattern)
			var perr *PatternError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, pattern, perr.Pattern)
		})
	}
}

func TestCompile_Match(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{pattern: "glob:*.txt", path: "a.txt", want: true},
		{pattern: "glob:*.txt", path: "a/b.txt", want: false},
		{pattern: "glob:**/*.txt", path: "a/b.txt", want: true},
		{pattern: "glob:**/*.txt", path: "a/b/c.txt", want: true},
		{pattern: "GLOB:*.txt", path: "x.txt", want: true},
		{pattern: "glob:*.{go,md}", path: "main.go", want: true},
		{pattern: "glob:*.{go,md}", path: "main.rs", want: false},
		{pattern: "glob:file[0-9]", path: "file7", want: true},
		{pattern: "glob:file[!0-9]", path: "file7", want: false},
		{pattern: "glob:[^a]", path: "^", want: true},
		{pattern: "glob:[^a]", path: "b", want: false},
		{pattern: "glob:*", path: "abc", want: true},
		{pattern: `glob:a\*`, path: "a*", want: true},
		{pattern: `glob:a\*`, path: "abc", want: false},
		{pattern: `glob:a\.txt`, path: "a.txt", want: true},
		{pattern: `glob:a\.txt`, path: "aXtxt", want: false},
		{pattern: `glob:\[x`, path: "[x", want: true},
		{pattern: `glob:\{a,b\}`, path: "{a,b}", want: true},
		{pattern: "regex:.*\\.log", path: "/var/app.log", want: true},
		{pattern: "regex:app", path: "/var/app.log", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, re.MatchString(tt.path))
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile("*.txt")
	assert.ErrorIs(t, err, ErrMissingSyntax)

	_, err = Compile("wildcard:*.txt")
	assert.ErrorIs(t, err, ErrUnsupportedSyntax)

	_, err = Compile("regex:(")
	assert.Error(t, err)
}
