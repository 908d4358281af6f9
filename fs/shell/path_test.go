package shell

import (
	"io/fs"
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_StringRoundTrip(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	for _, s := range []string{"", "/", "a", "a/b", "/a", "/a/b/c", "../a", "a/./b", "a/../b"} {
		t.Run(s, func(t *testing.T) {
			assert.Equal(t, s, fsys.Path(s).String())
		})
	}
}

func TestPath_ParseCanonicalizes(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	tests := []struct {
		in   string
		want string
	}{
		{"a//b", "a/b"},
		{"a/b/", "a/b"},
		{"//a", "/a"},
		{"///", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, fsys.Path(tt.in).String())
		})
	}
}

func TestPath_MountDefaultDirectory(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	p := fsys.Path("a", "b")
	assert.Equal(t, "a/b", p.String())
	assert.Equal(t, "/home/user/a/b", p.ToAbsolute().String())
	assert.Equal(t, "/home/user", fsys.DefaultDirectory().String())
}

func TestPath_Parent(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"foo", "", false},
		{"/", "", false},
		{"", "", false},
		{"/foo", "/", true},
		{"foo/bar", "foo", true},
		{"/a/b/c", "/a/b", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			parent, ok := fsys.Path(tt.in).Parent()
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, parent.String())
			}
		})
	}
}

func TestPath_ResolveEmptyIsIdentity(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	for _, s := range []string{"/", "/a/b", "a", "a/b"} {
		p := fsys.Path(s)
		got, err := p.Resolve(fsys.Path(""))
		require.NoError(t, err)
		assert.True(t, p.Equal(got), s)
	}
}

func TestPath_Resolve(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	tests := []struct {
		base, other, want string
	}{
		{"/a", "b/c", "/a/b/c"},
		{"/a", "/x", "/x"},
		{"a", "b", "a/b"},
		{"/", "a", "/a"},
	}
	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.other, func(t *testing.T) {
			got, err := fsys.Path(tt.base).Resolve(fsys.Path(tt.other))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPath_RelativizeThenResolve(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	pairs := [][2]string{
		{"/a/b", "/a/b/c/d"},
		{"/a/b/c", "/a/x"},
		{"/a", "/a"},
		{"/x/y", "/"},
		{"/p/q", "/r/s"},
	}
	for _, pair := range pairs {
		t.Run(pair[0]+"->"+pair[1], func(t *testing.T) {
			p, q := fsys.Path(pair[0]), fsys.Path(pair[1])
			rel, err := p.Relativize(q)
			require.NoError(t, err)
			assert.False(t, rel.IsAbsolute())

			back, err := p.Resolve(rel)
			require.NoError(t, err)
			assert.Equal(t, q.String(), back.Normalize().String())
		})
	}
}

func TestPath_RelativizeFromEmpty(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	tests := []struct {
		base, other string
	}{
		{"/", "/x/y"},
		{"/", "/"},
		{"", "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.base+"->"+tt.other, func(t *testing.T) {
			p, q := fsys.Path(tt.base), fsys.Path(tt.other)
			rel, err := p.Relativize(q)
			require.NoError(t, err)
			assert.True(t, q.Equal(rel))
			assert.Equal(t, q.IsAbsolute(), rel.IsAbsolute())

			back, err := p.Resolve(rel)
			require.NoError(t, err)
			assert.Equal(t, q.String(), back.String())
		})
	}
}

func TestPath_RelativizeMixed(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	_, err := fsys.Path("/a").Relativize(fsys.Path("b"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestPath_Normalize(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	tests := []struct {
		in, want string
	}{
		{"a/./b", "a/b"},
		{"a/b/../c", "a/c"},
		{"/a/../..", "/"},
		{"../a", "a"},
		{"./.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, fsys.Path(tt.in).Normalize().String())
		})
	}
}

func TestPath_StartsAndEndsWith(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	p := fsys.Path("/a/b/c")
	assert.True(t, p.StartsWith(fsys.Path("/a/b")))
	assert.False(t, p.StartsWith(fsys.Path("a/b")))
	assert.True(t, p.EndsWith(fsys.Path("b/c")))
	assert.True(t, p.EndsWith(fsys.Path("/a/b/c")))
	assert.False(t, p.EndsWith(fsys.Path("/b/c")))
}

func TestPath_NameAndSubpath(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})
	p := fsys.Path("/a/b/c")

	assert.Equal(t, 3, p.NameCount())
	name, err := p.Name(1)
	require.NoError(t, err)
	assert.Equal(t, "b", name.String())

	sub, err := p.Subpath(1, 3)
	require.NoError(t, err)
	assert.Equal(t, "b/c", sub.String())

	_, err = p.Subpath(2, 1)
	assert.Error(t, err)

	file, ok := p.FileName()
	require.True(t, ok)
	assert.Equal(t, "c", file.String())

	_, ok = fsys.Root().FileName()
	assert.False(t, ok)
}

func TestPath_ProviderMismatch(t *testing.T) {
	a := mount(t, newRemote(), Config{})
	b := mount(t, newRemote(), Config{})

	_, err := a.Path("/x").Compare(b.Path("/x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrProviderMismatch)

	_, err = a.Path("/x").Resolve(b.Path("y"))
	assert.ErrorIs(t, err, core.ErrProviderMismatch)

	assert.False(t, a.Path("/x").Equal(b.Path("/x")))

	err = a.Delete(t.Context(), b.Path("/x"))
	assert.ErrorIs(t, err, core.ErrProviderMismatch)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestPath_Compare(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})

	c, err := fsys.Path("/a").Compare(fsys.Path("/b"))
	require.NoError(t, err)
	assert.Negative(t, c)

	c, err = fsys.Path("/a/b").Compare(fsys.Path("/a/b"))
	require.NoError(t, err)
	assert.Zero(t, c)
}

func TestPath_URI(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})
	assert.Equal(t, "ssh.unix://user@host:22/home/user/a%20b", fsys.Path("a b").URI())
}

func TestPath_Quoted(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})
	assert.Equal(t, `"/x/a \"b\" \$c"`, fsys.Path(`/x/a "b" $c`).Quoted())
}
