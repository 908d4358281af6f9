package shell

import (
	"context"
	"io/fs"
	"strings"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/fs/shell/internal/errs"
	"github.com/jmgilman/go/fs/shell/internal/pathutil"
	"github.com/jmgilman/go/fs/shell/internal/stat"
)

// ReadAttributes reads the basic view of p: type, size, file key, and the
// creation, access, and modification times.
func (f *FileSystem) ReadAttributes(ctx context.Context, p Path) (*core.Attributes, error) {
	return f.readAttributes(ctx, p, stat.Basic)
}

// ReadPosixAttributes reads the basic view plus owner, group, and
// permissions.
func (f *FileSystem) ReadPosixAttributes(ctx context.Context, p Path) (*core.Attributes, error) {
	return f.readAttributes(ctx, p, stat.Posix)
}

// ReadAttributesByName reads a comma separated list of attribute names,
// optionally prefixed with a view ("posix:owner,group"). "*" selects every
// attribute of the view. Unknown names are ignored.
func (f *FileSystem) ReadAttributesByName(ctx context.Context, p Path, attributes string) (map[string]any, error) {
	view, names := "", attributes
	if v, rest, ok := strings.Cut(attributes, ":"); ok {
		view, names = v, rest
	}

	var all []core.Attribute
	switch view {
	case "":
		all = stat.All
	case "basic":
		all = stat.Basic
	case "posix":
		all = stat.Posix
	default:
		return nil, errs.Unsupported("readAttributes", view)
	}

	var selected []core.Attribute
	var seen core.AttributeSet
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "*" {
			selected = all
			break
		}
		a, ok := parseAttributeName(name)
		if !ok || seen.Has(a) {
			continue
		}
		seen = seen.With(a)
		selected = append(selected, a)
	}

	attrs, err := f.readAttributes(ctx, p, selected)
	if err != nil {
		return nil, err
	}
	return attrs.Map(), nil
}

// parseAttributeName accepts attribute names and the type flag names.
func parseAttributeName(name string) (core.Attribute, bool) {
	switch name {
	case "isRegularFile", "isDirectory", "isSymbolicLink", "isOther":
		return core.AttrType, true
	}
	return core.ParseAttribute(name)
}

func (f *FileSystem) readAttributes(ctx context.Context, p Path, attrs []core.Attribute) (*core.Attributes, error) {
	if err := f.checkPath("stat", p); err != nil {
		return nil, err
	}

	command := stat.Command(f.statDialect(ctx), f.commands.Get("stat"), attrs, false) + " " + p.quotedAbs()
	out, err := f.executeForStdout(ctx, "stat", command)
	if err != nil {
		return nil, f.disambiguate(ctx, "stat", p, err)
	}

	decoded, err := stat.Decode(out, attrs)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeExecutionFailed, "unexpected stat output", map[string]interface{}{
			"command": command,
			"stdout":  out,
		})
	}
	return decoded, nil
}

// SetAttribute sets one attribute named "view:attribute". The view
// defaults to basic, which supports lastModifiedTime and lastAccessTime
// (time.Time). The posix view adds owner and group (string) and
// permissions (fs.FileMode).
func (f *FileSystem) SetAttribute(ctx context.Context, p Path, attribute string, value any) error {
	view, name := "basic", attribute
	if v, rest, ok := strings.Cut(attribute, ":"); ok {
		view, name = v, rest
	}
	if view != "basic" && view != "posix" {
		return errs.Unsupported("setAttribute", view)
	}

	if view == "posix" {
		switch name {
		case "owner":
			s, err := valueAs[string](attribute, value)
			if err != nil {
				return err
			}
			return f.SetOwner(ctx, p, s)
		case "group":
			s, err := valueAs[string](attribute, value)
			if err != nil {
				return err
			}
			return f.SetGroup(ctx, p, s)
		case "permissions":
			perm, err := valueAs[fs.FileMode](attribute, value)
			if err != nil {
				return err
			}
			return f.SetPermissions(ctx, p, perm)
		}
	}

	switch name {
	case "lastModifiedTime":
		t, err := valueAs[time.Time](attribute, value)
		if err != nil {
			return err
		}
		return f.SetTimes(ctx, p, t, time.Time{})
	case "lastAccessTime":
		t, err := valueAs[time.Time](attribute, value)
		if err != nil {
			return err
		}
		return f.SetTimes(ctx, p, time.Time{}, t)
	case "creationTime":
		return errs.Unsupported("setAttribute", attribute)
	}
	return errors.Newf(errors.CodeInvalidInput, "unsupported attribute %q", attribute)
}

func valueAs[T any](attribute string, value any) (T, error) {
	v, ok := value.(T)
	if !ok {
		var zero T
		return zero, errors.Newf(errors.CodeInvalidInput, "attribute %q wants %T, got %T", attribute, zero, value)
	}
	return v, nil
}

// SetTimes sets the modification and access times of p. A zero time is
// left unchanged. Equal times are set with a single touch.
func (f *FileSystem) SetTimes(ctx context.Context, p Path, mtime, atime time.Time) error {
	if err := f.checkPath("touch", p); err != nil {
		return err
	}

	touch := func(flags ...string) error {
		args := append(flags, p.quotedAbs())
		_, err := f.executeForStdout(ctx, "touch", "TZ=UTC "+f.line("touch", args...))
		return err
	}

	if !mtime.IsZero() && mtime.Equal(atime) {
		return touch("-t", stat.EncodeTouchTime(mtime))
	}
	if !mtime.IsZero() {
		if err := touch("-m", "-t", stat.EncodeTouchTime(mtime)); err != nil {
			return err
		}
	}
	if !atime.IsZero() {
		if err := touch("-a", "-t", stat.EncodeTouchTime(atime)); err != nil {
			return err
		}
	}
	return nil
}

// SetOwner changes the owner of p with chown.
func (f *FileSystem) SetOwner(ctx context.Context, p Path, owner string) error {
	if err := f.checkPath("chown", p); err != nil {
		return err
	}
	_, err := f.executeForStdout(ctx, "chown", f.line("chown", pathutil.Quote(owner), p.quotedAbs()))
	return err
}

// SetGroup changes the group of p with chgrp.
func (f *FileSystem) SetGroup(ctx context.Context, p Path, group string) error {
	if err := f.checkPath("chgrp", p); err != nil {
		return err
	}
	_, err := f.executeForStdout(ctx, "chgrp", f.line("chgrp", pathutil.Quote(group), p.quotedAbs()))
	return err
}

// SetPermissions changes the permission bits of p with chmod.
func (f *FileSystem) SetPermissions(ctx context.Context, p Path, perm fs.FileMode) error {
	if err := f.checkPath("chmod", p); err != nil {
		return err
	}
	_, err := f.executeForStdout(ctx, "chmod", f.line("chmod", stat.EncodeMode(perm), p.quotedAbs()))
	return err
}
