// Package stat maps attributes to stat format placeholders for the GNU and
// BSD dialects and decodes the resulting output.
package stat

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/jmgilman/go/fs/core"
)

// UnitSeparator delimits fields in stat output.
const UnitSeparator = "\x1f"

// Dialect selects the flavour of the remote stat command.
type Dialect int

const (
	// GNU is coreutils stat (--printf).
	GNU Dialect = iota
	// BSD is the BSD and macOS stat (-f).
	BSD
)

// String returns the lowercase dialect name.
func (d Dialect) String() string {
	if d == BSD {
		return "bsd"
	}
	return "gnu"
}

// ParseDialect parses "gnu" or "bsd", ignoring case.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gnu":
		return GNU, nil
	case "bsd":
		return BSD, nil
	}
	return GNU, fmt.Errorf("unknown stat dialect %q", s)
}

// Detect picks a dialect from the output of uname -s.
func Detect(unameOutput string) Dialect {
	switch strings.ToLower(strings.TrimSpace(unameOutput)) {
	case "darwin", "freebsd":
		return BSD
	}
	return GNU
}

type placeholders struct{ gnu, bsd string }

var formats = map[core.Attribute]placeholders{
	core.AttrCreationTime:     {"%W", "%B"},
	core.AttrGroup:            {"%G", "%Sg"},
	core.AttrFileKey:          {"%i", "%i"},
	core.AttrLastAccessTime:   {"%X", "%a"},
	core.AttrLastModifiedTime: {"%Y", "%m"},
	core.AttrLastChangedTime:  {"%Z", "%c"},
	core.AttrName:             {"%n", "%N"},
	core.AttrOwner:            {"%U", "%Su"},
	core.AttrPermissions:      {"%A", "%Sp"},
	core.AttrSize:             {"%s", "%z"},
	core.AttrType:             {"%F", "%HT"},
}

// Placeholder returns the format token for a in dialect d.
func Placeholder(d Dialect, a core.Attribute) string {
	p := formats[a]
	if d == BSD {
		return p.bsd
	}
	return p.gnu
}

var (
	// Basic is the attribute set of the basic view.
	Basic = []core.Attribute{
		core.AttrCreationTime,
		core.AttrFileKey,
		core.AttrType,
		core.AttrLastAccessTime,
		core.AttrLastModifiedTime,
		core.AttrSize,
	}

	// Posix is the basic view plus ownership and permissions.
	Posix = append(append([]core.Attribute{}, Basic...),
		core.AttrPermissions,
		core.AttrOwner,
		core.AttrGroup,
	)

	// All is every supported attribute.
	All = core.AllAttributes()
)

// Command renders the stat invocation that prints attrs separated by
// UnitSeparator. With newline set each file's record ends in a newline,
// which is needed when stat is given several files. The path operand is
// not included.
func Command(d Dialect, bin string, attrs []core.Attribute, newline bool) string {
	var b strings.Builder
	b.WriteString(bin)
	if d == BSD {
		b.WriteString(` -f "`)
	} else {
		b.WriteString(` --printf "`)
	}
	for i, a := range attrs {
		if i > 0 {
			b.WriteString(UnitSeparator)
		}
		b.WriteString(Placeholder(d, a))
	}
	if newline {
		b.WriteString(`\n`)
	}
	b.WriteString(`"`)
	return b.String()
}

// Decode parses one stat record produced for attrs.
func Decode(record string, attrs []core.Attribute) (*core.Attributes, error) {
	values := strings.Split(strings.TrimSuffix(record, "\n"), UnitSeparator)
	if len(values) < len(attrs) {
		return nil, fmt.Errorf("stat record has %d fields, want %d", len(values), len(attrs))
	}

	out := &core.Attributes{}
	for i, a := range attrs {
		v := values[i]
		switch a {
		case core.AttrCreationTime:
			out.CreationTime = DecodeTime(v)
		case core.AttrLastAccessTime:
			out.LastAccessTime = DecodeTime(v)
		case core.AttrLastModifiedTime:
			out.LastModifiedTime = DecodeTime(v)
		case core.AttrLastChangedTime:
			out.LastChangedTime = DecodeTime(v)
		case core.AttrGroup:
			out.Group = v
		case core.AttrOwner:
			out.Owner = v
		case core.AttrName:
			out.Name = v
		case core.AttrType:
			out.Type = DecodeType(v)
		case core.AttrFileKey:
			key, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("decoding fileKey %q: %w", v, err)
			}
			out.FileKey = key
		case core.AttrSize:
			size, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("decoding size %q: %w", v, err)
			}
			out.Size = size
		case core.AttrPermissions:
			perm, err := DecodePermissions(v)
			if err != nil {
				return nil, err
			}
			out.Permissions = perm
		}
		out.Present = out.Present.With(a)
	}
	return out, nil
}

// DecodeType maps the textual file type to a FileType. Unrecognised
// types (fifo, socket, device) are TypeOther.
func DecodeType(s string) core.FileType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular file", "regular empty file":
		return core.TypeRegular
	case "directory":
		return core.TypeDirectory
	case "symbolic link":
		return core.TypeSymlink
	}
	return core.TypeOther
}

// DecodePermissions parses an ls-style mode string such as "drwxr-sr-x".
// The leading type marker is ignored and any set slot counts as the
// canonical permission for that position, so setuid and sticky markers
// read as execute.
func DecodePermissions(s string) (fs.FileMode, error) {
	if len(s) < 10 {
		return 0, fmt.Errorf("invalid permission string %q", s)
	}
	var mode fs.FileMode
	for i, c := range s[1:10] {
		if c != '-' {
			mode |= 1 << uint(8-i)
		}
	}
	return mode, nil
}

// DecodeTime parses epoch seconds. Dialects that cannot report a value
// print "-" or "?", which decodes to the epoch.
func DecodeTime(s string) time.Time {
	secs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return time.Unix(secs, 0).UTC()
}

// EncodeMode renders the permission bits of perm as three octal digits.
func EncodeMode(perm fs.FileMode) string {
	return fmt.Sprintf("%03o", uint32(perm.Perm()))
}

// TouchTimeLayout is the time format accepted by touch -t.
const TouchTimeLayout = "200601021504.05"

// EncodeTouchTime renders t for touch -t in UTC.
func EncodeTouchTime(t time.Time) string {
	return t.UTC().Format(TouchTimeLayout)
}
