package shell

import (
	"net/url"
	"strings"

	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/fs/shell/internal/errs"
	"github.com/jmgilman/go/fs/shell/internal/pathutil"
)

// Path is an immutable POSIX path bound to the filesystem that created it.
//
// The zero value is the empty relative path with no filesystem.
type Path struct {
	fs       *FileSystem
	absolute bool
	segments []string
}

func newPath(fs *FileSystem, absolute bool, segments []string) Path {
	return Path{fs: fs, absolute: absolute, segments: segments}
}

func parsePath(fs *FileSystem, s string) Path {
	abs, segs := pathutil.Split(s)
	return newPath(fs, abs, segs)
}

// FileSystem returns the filesystem the path belongs to.
func (p Path) FileSystem() *FileSystem { return p.fs }

// String returns the canonical form: segments joined by "/", with a
// leading "/" when absolute.
func (p Path) String() string { return pathutil.Join(p.absolute, p.segments) }

// IsAbsolute reports whether the path starts at the root.
func (p Path) IsAbsolute() bool { return p.absolute }

// NameCount returns the number of segments.
func (p Path) NameCount() int { return len(p.segments) }

// Name returns segment i as a relative path.
func (p Path) Name(i int) (Path, error) {
	if i < 0 || i >= len(p.segments) {
		return Path{}, errs.InvalidInput("name index out of range", core.ErrInvalidPath)
	}
	return newPath(p.fs, false, []string{p.segments[i]}), nil
}

// FileName returns the last segment as a relative path. It returns false
// when the path has no segments.
func (p Path) FileName() (Path, bool) {
	if len(p.segments) == 0 {
		return Path{}, false
	}
	return newPath(p.fs, false, []string{p.segments[len(p.segments)-1]}), true
}

func (p Path) fileNameString() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the path without its last segment. The root and single
// segment relative paths have no parent.
func (p Path) Parent() (Path, bool) {
	n := len(p.segments)
	if n == 0 || (n == 1 && !p.absolute) {
		return Path{}, false
	}
	return newPath(p.fs, p.absolute, p.segments[:n-1:n-1]), true
}

// Root returns "/" for absolute paths and false otherwise.
func (p Path) Root() (Path, bool) {
	if !p.absolute {
		return Path{}, false
	}
	return newPath(p.fs, true, nil), true
}

func (p Path) checkProvider(op string, other Path) error {
	if p.fs != other.fs {
		return errs.ProviderMismatch(op)
	}
	return nil
}

// Resolve joins other onto p. An absolute other is returned unchanged and
// an empty relative other returns p.
func (p Path) Resolve(other Path) (Path, error) {
	if err := p.checkProvider("resolve", other); err != nil {
		return Path{}, err
	}
	return p.resolve(other), nil
}

func (p Path) resolve(other Path) Path {
	if other.absolute {
		return other
	}
	if len(other.segments) == 0 {
		return p
	}
	segs := make([]string, 0, len(p.segments)+len(other.segments))
	segs = append(segs, p.segments...)
	segs = append(segs, other.segments...)
	return newPath(p.fs, p.absolute, segs)
}

// ResolveString parses other on p's filesystem and resolves it.
func (p Path) ResolveString(other string) Path {
	return p.resolve(parsePath(p.fs, other))
}

// ResolveSibling resolves other against p's parent. Without a parent,
// other is returned.
func (p Path) ResolveSibling(other Path) (Path, error) {
	if err := p.checkProvider("resolveSibling", other); err != nil {
		return Path{}, err
	}
	parent, ok := p.Parent()
	if !ok {
		return other, nil
	}
	return parent.resolve(other), nil
}

// Relativize returns the path that, resolved against p, yields other.
// Both paths must be absolute or both relative. When p has no segments,
// other is returned unchanged.
func (p Path) Relativize(other Path) (Path, error) {
	if err := p.checkProvider("relativize", other); err != nil {
		return Path{}, err
	}
	if p.absolute != other.absolute {
		return Path{}, errs.InvalidInput("paths must both be absolute or both be relative", core.ErrInvalidPath)
	}
	if len(p.segments) == 0 {
		return other, nil
	}
	return p.relative(other), nil
}

// relative returns the segments leading from p to other as a relative
// path, including when p is the root.
func (p Path) relative(other Path) Path {
	i := 0
	for i < len(p.segments) && i < len(other.segments) && p.segments[i] == other.segments[i] {
		i++
	}

	segs := make([]string, 0, len(p.segments)-i+len(other.segments)-i)
	for range p.segments[i:] {
		segs = append(segs, "..")
	}
	segs = append(segs, other.segments[i:]...)
	return newPath(p.fs, false, segs)
}

// Normalize removes "." segments and "name/.." pairs. A ".." with no
// preceding segment is dropped.
func (p Path) Normalize() Path {
	return newPath(p.fs, p.absolute, pathutil.Normalize(p.segments))
}

// ToAbsolute resolves p against the filesystem's default directory.
func (p Path) ToAbsolute() Path {
	if p.absolute || p.fs == nil {
		return p
	}
	return p.fs.defaultDir.resolve(p)
}

// StartsWith reports whether p begins with other's segments. Paths from
// different filesystems or with different absoluteness never match.
func (p Path) StartsWith(other Path) bool {
	if p.fs != other.fs || p.absolute != other.absolute || len(other.segments) > len(p.segments) {
		return false
	}
	for i, s := range other.segments {
		if p.segments[i] != s {
			return false
		}
	}
	return true
}

// EndsWith reports whether p ends with other's segments. An absolute other
// only matches an absolute p.
func (p Path) EndsWith(other Path) bool {
	if p.fs != other.fs || (other.absolute && !p.absolute) || len(other.segments) > len(p.segments) {
		return false
	}
	if other.absolute {
		return p.Equal(other)
	}
	offset := len(p.segments) - len(other.segments)
	for i, s := range other.segments {
		if p.segments[offset+i] != s {
			return false
		}
	}
	return true
}

// Subpath returns the relative path of segments [begin, end).
func (p Path) Subpath(begin, end int) (Path, error) {
	if begin < 0 || end > len(p.segments) || begin >= end {
		return Path{}, errs.InvalidInput("subpath range out of bounds", core.ErrInvalidPath)
	}
	segs := append([]string(nil), p.segments[begin:end]...)
	return newPath(p.fs, false, segs), nil
}

// Compare orders paths by their canonical strings.
func (p Path) Compare(other Path) (int, error) {
	if err := p.checkProvider("compare", other); err != nil {
		return 0, err
	}
	return strings.Compare(p.String(), other.String()), nil
}

// Equal reports whether both paths belong to the same filesystem and have
// the same canonical string.
func (p Path) Equal(other Path) bool {
	return p.fs == other.fs && p.String() == other.String()
}

// Quoted returns the path in double quotes for use on a shell command line.
func (p Path) Quoted() string { return pathutil.Quote(p.String()) }

// quotedAbs is the absolute form quoted for a command line.
func (p Path) quotedAbs() string { return p.ToAbsolute().Quoted() }

// URI returns the mount URI with the absolute form of p as its path.
func (p Path) URI() string {
	if p.fs == nil {
		return p.String()
	}
	u := url.URL{
		Scheme: p.fs.uri.Scheme,
		User:   p.fs.uri.User,
		Host:   p.fs.uri.Host,
		Path:   p.ToAbsolute().String(),
	}
	return u.String()
}

var _ core.Path[Path] = Path{}
