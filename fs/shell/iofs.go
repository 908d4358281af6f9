package shell

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"sort"
	"time"

	"github.com/jmgilman/go/fs/core"
	"golang.org/x/sync/errgroup"
)

// readDirConcurrency bounds the stat commands ReadDir runs at once.
const readDirConcurrency = 8

// FS returns a read-only io/fs view of the tree under root. Every call runs
// with ctx.
func (f *FileSystem) FS(ctx context.Context, root Path) fs.FS {
	return &ioFS{ctx: ctx, fs: f, root: root.ToAbsolute()}
}

type ioFS struct {
	ctx  context.Context
	fs   *FileSystem
	root Path
}

func (i *ioFS) path(op, name string) (Path, error) {
	if !fs.ValidPath(name) {
		return Path{}, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return i.root, nil
	}
	return i.root.ResolveString(name), nil
}

// Open opens name. Directories support ReadDir; files stream with cat.
func (i *ioFS) Open(name string) (fs.File, error) {
	info, err := i.stat("open", name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return &dirFile{fsys: i, name: name, info: info}, nil
	}

	p, _ := i.path("open", name)
	rc, err := i.fs.NewReader(i.ctx, p)
	if err != nil {
		return nil, err
	}
	return &file{ReadCloser: rc, info: info}, nil
}

// Stat returns the attributes of name.
func (i *ioFS) Stat(name string) (fs.FileInfo, error) {
	return i.stat("stat", name)
}

func (i *ioFS) stat(op, name string) (*fileInfo, error) {
	p, err := i.path(op, name)
	if err != nil {
		return nil, err
	}
	attrs, err := i.fs.ReadPosixAttributes(i.ctx, p)
	if err != nil {
		return nil, err
	}
	return newFileInfo(p.fileNameString(), attrs), nil
}

// ReadDir lists name and stats each entry. Entries are sorted by name.
func (i *ioFS) ReadDir(name string) ([]fs.DirEntry, error) {
	dir, err := i.path("readdir", name)
	if err != nil {
		return nil, err
	}
	paths, err := i.fs.ReadDir(i.ctx, dir, nil)
	if err != nil {
		return nil, err
	}

	entries := make([]fs.DirEntry, len(paths))
	g, ctx := errgroup.WithContext(i.ctx)
	g.SetLimit(readDirConcurrency)
	for n, p := range paths {
		g.Go(func() error {
			attrs, err := i.fs.ReadPosixAttributes(ctx, p)
			if err != nil {
				return err
			}
			entries[n] = fs.FileInfoToDirEntry(newFileInfo(p.fileNameString(), attrs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(a, b int) bool {
		return entries[a].Name() < entries[b].Name()
	})
	return entries, nil
}

// ReadFile reads the whole content of name.
func (i *ioFS) ReadFile(name string) ([]byte, error) {
	p, err := i.path("readfile", name)
	if err != nil {
		return nil, err
	}
	rc, err := i.fs.NewReader(i.ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// fileInfo implements fs.FileInfo over decoded attributes.
type fileInfo struct {
	name  string
	attrs *core.Attributes
}

func newFileInfo(name string, attrs *core.Attributes) *fileInfo {
	if name == "" {
		name = "/"
	}
	return &fileInfo{name: name, attrs: attrs}
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return fi.attrs.Size }
func (fi *fileInfo) Mode() fs.FileMode  { return fi.attrs.Mode() }
func (fi *fileInfo) ModTime() time.Time { return fi.attrs.LastModifiedTime }
func (fi *fileInfo) IsDir() bool        { return fi.attrs.IsDirectory() }

// Sys returns the *core.Attributes the info was built from.
func (fi *fileInfo) Sys() any { return fi.attrs }

type file struct {
	io.ReadCloser
	info *fileInfo
}

func (f *file) Stat() (fs.FileInfo, error) { return f.info, nil }

type dirFile struct {
	fsys    *ioFS
	name    string
	info    *fileInfo
	entries []fs.DirEntry
	loaded  bool
}

func (d *dirFile) Stat() (fs.FileInfo, error) { return d.info, nil }

func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *dirFile) Close() error { return nil }

// ReadDir follows the fs.ReadDirFile contract.
func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if !d.loaded {
		entries, err := d.fsys.ReadDir(d.name)
		if err != nil {
			return nil, err
		}
		d.entries = entries
		d.loaded = true
	}

	if n <= 0 {
		out := d.entries
		d.entries = nil
		return out, nil
	}
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(d.entries) {
		n = len(d.entries)
	}
	out := d.entries[:n]
	d.entries = d.entries[n:]
	return out, nil
}

// Tree returns a core.TreeWriter that writes below root, for use with
// core.CopyTree.
func (f *FileSystem) Tree(root Path) core.TreeWriter {
	return &tree{fs: f, root: root.ToAbsolute()}
}

type tree struct {
	fs   *FileSystem
	root Path
}

// MkdirAll creates name and any missing parents.
func (t *tree) MkdirAll(ctx context.Context, name string, perm fs.FileMode) error {
	target := t.root.ResolveString(name).Normalize()
	for n := 1; n <= target.NameCount(); n++ {
		dir := newPath(t.fs, true, target.segments[:n:n])
		exists, err := t.fs.Exists(ctx, dir)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := t.fs.CreateDirectory(ctx, dir, WithPermissions(perm)); err != nil && !errors.Is(err, fs.ErrExist) {
			return err
		}
	}
	return nil
}

// WriteFile replaces name with data and sets its permissions.
func (t *tree) WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) error {
	p := t.root.ResolveString(name)
	w, err := t.fs.NewWriter(ctx, p)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return t.fs.SetPermissions(ctx, p, perm)
}

var (
	_ fs.StatFS     = (*ioFS)(nil)
	_ fs.ReadDirFS  = (*ioFS)(nil)
	_ fs.ReadFileFS = (*ioFS)(nil)
)
