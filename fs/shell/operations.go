package shell

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/fs/shell/internal/errs"
	"github.com/jmgilman/go/fs/shell/internal/pathutil"
	"github.com/jmgilman/go/fs/shell/internal/stat"
)

// CreateOption sets attributes applied when creating a file or directory.
type CreateOption func(*createOptions)

type createOptions struct {
	perm  *fs.FileMode
	owner string
	group string
}

// WithPermissions sets the permission bits of the new entry.
func WithPermissions(perm fs.FileMode) CreateOption {
	return func(o *createOptions) {
		p := perm.Perm()
		o.perm = &p
	}
}

// WithOwner sets the owner of a new file.
func WithOwner(owner string) CreateOption {
	return func(o *createOptions) { o.owner = owner }
}

// WithGroup sets the group of a new file.
func WithGroup(group string) CreateOption {
	return func(o *createOptions) { o.group = group }
}

func collectCreateOptions(opts []CreateOption) createOptions {
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var accessFlags = map[core.AccessMode]string{
	core.AccessRead:    "-r",
	core.AccessWrite:   "-w",
	core.AccessExecute: "-x",
}

// CheckAccess returns nil when p exists and grants every requested mode.
// A missing path is NotFound; a denied mode is AccessDenied.
func (f *FileSystem) CheckAccess(ctx context.Context, p Path, modes ...core.AccessMode) error {
	if err := f.checkPath("access", p); err != nil {
		return err
	}
	q := p.quotedAbs()

	res, err := f.execute(ctx, "test", f.line("test", "-e", q))
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return errs.NotFound("access", p.String())
	}

	for _, mode := range modes {
		flag, ok := accessFlags[mode]
		if !ok {
			continue
		}
		res, err := f.execute(ctx, "test", f.line("test", flag, q))
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return errs.AccessDenied("access", p.String())
		}
	}
	return nil
}

// Exists reports whether p exists.
func (f *FileSystem) Exists(ctx context.Context, p Path) (bool, error) {
	err := f.CheckAccess(ctx, p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Copy copies src to dst with cp.
func (f *FileSystem) Copy(ctx context.Context, src, dst Path, opts ...core.CopyOption) error {
	return f.copyOrMove(ctx, "cp", src, dst, opts)
}

// Move renames src to dst with mv.
func (f *FileSystem) Move(ctx context.Context, src, dst Path, opts ...core.CopyOption) error {
	return f.copyOrMove(ctx, "mv", src, dst, opts)
}

// copyOrMove runs cp or mv after checking the destination. An existing
// destination that is the same file makes the call a no-op; otherwise it
// is replaced with ReplaceExisting or reported as AlreadyExists.
func (f *FileSystem) copyOrMove(ctx context.Context, name string, src, dst Path, opts []core.CopyOption) error {
	if err := f.checkPath(name, src); err != nil {
		return err
	}
	if err := f.checkPath(name, dst); err != nil {
		return err
	}
	if core.HasCopyOption(opts, core.AtomicMove) {
		return errs.Unsupported(name, src.String())
	}

	srcAttrs, err := f.ReadAttributes(ctx, src)
	if err != nil {
		return err
	}

	exists, err := f.Exists(ctx, dst)
	if err != nil {
		return err
	}
	if exists {
		dstAttrs, err := f.ReadPosixAttributes(ctx, dst)
		if err != nil {
			return err
		}
		if srcAttrs.FileKey == dstAttrs.FileKey {
			return nil
		}
		if !core.HasCopyOption(opts, core.ReplaceExisting) {
			return errs.AlreadyExists(name, dst.String())
		}
		if err := f.delete(ctx, dst, dstAttrs); err != nil {
			return err
		}
	}

	_, err = f.executeForStdout(ctx, name, f.line(name, src.quotedAbs(), dst.quotedAbs()))
	return err
}

// CreateDirectory creates the directory p. WithPermissions becomes the
// mode argument of mkdir.
func (f *FileSystem) CreateDirectory(ctx context.Context, p Path, opts ...CreateOption) error {
	if err := f.checkPath("mkdir", p); err != nil {
		return err
	}
	o := collectCreateOptions(opts)

	if f.sftp != nil {
		return f.createDirectorySFTP(p, o)
	}

	args := make([]string, 0, 3)
	if o.perm != nil {
		args = append(args, "-m", stat.EncodeMode(*o.perm))
	}
	args = append(args, p.quotedAbs())

	_, err := f.executeForStdout(ctx, "mkdir", f.line("mkdir", args...))
	if err != nil && errs.IsCommandFailed(err) {
		if exists, _ := f.Exists(ctx, p); exists {
			return errs.AlreadyExists("mkdir", p.String())
		}
	}
	return err
}

// CreateFile creates an empty file at p and fails if it already exists.
// Permissions, owner, and group are applied by separate commands after the
// file is created, so another reader may briefly see the defaults.
func (f *FileSystem) CreateFile(ctx context.Context, p Path, opts ...CreateOption) error {
	if err := f.checkPath("create", p); err != nil {
		return err
	}
	exists, err := f.Exists(ctx, p)
	if err != nil {
		return err
	}
	if exists {
		return errs.AlreadyExists("create", p.String())
	}
	return f.createFile(ctx, p, collectCreateOptions(opts))
}

func (f *FileSystem) createFile(ctx context.Context, p Path, o createOptions) error {
	if _, err := f.executeForStdout(ctx, "touch", f.line("touch", p.quotedAbs())); err != nil {
		return err
	}
	if o.perm != nil {
		if err := f.SetPermissions(ctx, p, *o.perm); err != nil {
			return err
		}
	}
	if o.owner != "" {
		if err := f.SetOwner(ctx, p, o.owner); err != nil {
			return err
		}
	}
	if o.group != "" {
		if err := f.SetGroup(ctx, p, o.group); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a file with unlink or an empty directory with rmdir.
func (f *FileSystem) Delete(ctx context.Context, p Path) error {
	if err := f.checkPath("delete", p); err != nil {
		return err
	}
	attrs, err := f.ReadAttributes(ctx, p)
	if err != nil {
		return err
	}
	return f.delete(ctx, p, attrs)
}

func (f *FileSystem) delete(ctx context.Context, p Path, attrs *core.Attributes) error {
	if attrs.IsDirectory() {
		res, err := f.execute(ctx, "rmdir", f.line("rmdir", p.quotedAbs()))
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return errs.DirectoryNotEmpty("delete", p.String())
		}
		return nil
	}
	_, err := f.executeForStdout(ctx, "unlink", f.line("unlink", p.quotedAbs()))
	return err
}

// DeleteIfExists deletes p and reports whether it existed.
func (f *FileSystem) DeleteIfExists(ctx context.Context, p Path) (bool, error) {
	err := f.Delete(ctx, p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Filter selects directory entries.
type Filter func(Path) bool

// DirectoryStream iterates the entries of one directory listing.
type DirectoryStream struct {
	entries []Path
	filter  Filter
	next    int
	closed  bool
}

// Next returns the next accepted entry. It returns false when the listing
// is exhausted or the stream is closed.
func (d *DirectoryStream) Next() (Path, bool) {
	for !d.closed && d.next < len(d.entries) {
		p := d.entries[d.next]
		d.next++
		if d.filter == nil || d.filter(p) {
			return p, true
		}
	}
	return Path{}, false
}

// Close stops iteration.
func (d *DirectoryStream) Close() error {
	d.closed = true
	return nil
}

// NewDirectoryStream lists dir with ls. Entries are dir resolved with each
// name and are not stat'd. A nil filter accepts everything.
func (f *FileSystem) NewDirectoryStream(ctx context.Context, dir Path, filter Filter) (*DirectoryStream, error) {
	if err := f.checkPath("readdir", dir); err != nil {
		return nil, err
	}

	out, err := f.executeForStdout(ctx, "ls", f.line("ls", "-A", "-1", dir.quotedAbs()))
	if err != nil {
		return nil, f.disambiguate(ctx, "readdir", dir, err)
	}

	names := splitLines(out)
	entries := make([]Path, 0, len(names))
	for _, name := range names {
		entries = append(entries, dir.ResolveString(name))
	}
	return &DirectoryStream{entries: entries, filter: filter}, nil
}

// ReadDir returns every entry of dir accepted by filter.
func (f *FileSystem) ReadDir(ctx context.Context, dir Path, filter Filter) ([]Path, error) {
	ds, err := f.NewDirectoryStream(ctx, dir, filter)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	var out []Path
	for p, ok := ds.Next(); ok; p, ok = ds.Next() {
		out = append(out, p)
	}
	return out, nil
}

// StatDirectory stats every regular file directly under dir in a single
// command. The result is keyed by each file's path relative to dir.
func (f *FileSystem) StatDirectory(ctx context.Context, dir Path) (map[string]*core.Attributes, error) {
	if err := f.checkPath("statdir", dir); err != nil {
		return nil, err
	}

	abs := dir.ToAbsolute()
	statCmd := stat.Command(f.statDialect(ctx), f.commands.Get("stat"), stat.All, true)
	command := f.line("find", abs.Quoted(), "-maxdepth", "1", "-type", "f", "-exec", statCmd, "{}", "+")

	out, err := f.executeForStdout(ctx, "find", command)
	if err != nil {
		return nil, f.disambiguate(ctx, "statdir", dir, err)
	}

	result := make(map[string]*core.Attributes)
	for _, record := range splitLines(out) {
		attrs, err := stat.Decode(record, stat.All)
		if err != nil {
			return nil, errs.InvalidInput("unexpected stat output", err)
		}
		rel := abs.relative(dir.ResolveString(attrs.Name).ToAbsolute())
		result[rel.String()] = attrs
	}
	return result, nil
}

// IsSameFile reports whether a and b are the same file, comparing file
// keys when the paths differ.
func (f *FileSystem) IsSameFile(ctx context.Context, a, b Path) (bool, error) {
	if a.Equal(b) {
		return true, nil
	}
	if a.fs != b.fs {
		return false, nil
	}
	aa, err := f.ReadAttributes(ctx, a)
	if err != nil {
		return false, err
	}
	ba, err := f.ReadAttributes(ctx, b)
	if err != nil {
		return false, err
	}
	return aa.FileKey == ba.FileKey, nil
}

// IsHidden reports whether the file name of p starts with a dot.
func (f *FileSystem) IsHidden(p Path) bool {
	return strings.HasPrefix(p.fileNameString(), ".")
}

// ToRealPath is not supported: symbolic links are never resolved.
func (f *FileSystem) ToRealPath(_ context.Context, p Path) (Path, error) {
	return Path{}, errs.Unsupported("realpath", p.String())
}

// LookupUser returns user if "id user" succeeds on the remote host.
func (f *FileSystem) LookupUser(ctx context.Context, user string) (string, error) {
	res, err := f.execute(ctx, "id", f.line("id", pathutil.Quote(user)))
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", errs.NotFound("lookup user", user)
	}
	return user, nil
}

// LookupGroup returns group if it appears in /etc/group on the remote host.
func (f *FileSystem) LookupGroup(ctx context.Context, group string) (string, error) {
	res, err := f.execute(ctx, "grep", f.line("grep", "-i", pathutil.Quote("^"+group+":"), "/etc/group"))
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", errs.NotFound("lookup group", group)
	}
	return group, nil
}

// disambiguate turns a failed command into NotFound when p does not exist.
func (f *FileSystem) disambiguate(ctx context.Context, op string, p Path, err error) error {
	if !errs.IsCommandFailed(err) {
		return err
	}
	exists, existsErr := f.Exists(ctx, p)
	if existsErr == nil && !exists {
		return errs.NotFound(op, p.String())
	}
	return err
}

// splitLines splits command output into lines, dropping trailing empty
// lines. Empty output yields no lines.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
