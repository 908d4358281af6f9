package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantAbsolute bool
		wantSegments []string
	}{
		{name: "empty", input: "", wantAbsolute: false, wantSegments: nil},
		{name: "root", input: "/", wantAbsolute: true, wantSegments: nil},
		{name: "repeated root", input: "///", wantAbsolute: true, wantSegments: nil},
		{name: "relative", input: "a/b", wantAbsolute: false, wantSegments: []string{"a", "b"}},
		{name: "absolute", input: "/a/b", wantAbsolute: true, wantSegments: []string{"a", "b"}},
		{name: "separator runs", input: "a//b///c", wantAbsolute: false, wantSegments: []string{"a", "b", "c"}},
		{name: "trailing separator", input: "/a/b/", wantAbsolute: true, wantSegments: []string{"a", "b"}},
		{name: "dots kept", input: "./a/../b", wantAbsolute: false, wantSegments: []string{".", "a", "..", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, segs := Split(tt.input)
			assert.Equal(t, tt.wantAbsolute, abs)
			assert.Equal(t, tt.wantSegments, segs)
		})
	}
}

func TestJoin_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "/", "a", "a/b", "/a", "/a/b/c", ".", "../x"} {
		t.Run(s, func(t *testing.T) {
			assert.Equal(t, s, Join(Split(s)))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input []string
		want  []string
	}{
		{input: []string{"a", ".", "b"}, want: []string{"a", "b"}},
		{input: []string{"a", "..", "b"}, want: []string{"b"}},
		{input: []string{"a", "b", "..", ".."}, want: []string{}},
		{input: []string{"..", "a"}, want: []string{"a"}},
		{input: []string{".", ".."}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(Join(false, tt.input), func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "/home/user", want: `"/home/user"`},
		{input: "/a b", want: `"/a b"`},
		{input: `/say "hi"`, want: `"/say \"hi\""`},
		{input: "/$HOME", want: `"/\$HOME"`},
		{input: "/`id`", want: "\"/`id`\""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.input))
		})
	}
}
