package core

import (
	"io/fs"
	"strings"
	"time"
)

// FileType is the kind of a filesystem entry.
type FileType int

const (
	// TypeUnknown indicates the type was not reported.
	TypeUnknown FileType = iota
	// TypeRegular indicates a regular file.
	TypeRegular
	// TypeDirectory indicates a directory.
	TypeDirectory
	// TypeSymlink indicates a symbolic link.
	TypeSymlink
	// TypeOther indicates any other kind of entry (device, fifo, socket).
	TypeOther
)

// String returns a string representation of the FileType.
func (t FileType) String() string {
	switch t {
	case TypeRegular:
		return "regular file"
	case TypeDirectory:
		return "directory"
	case TypeSymlink:
		return "symbolic link"
	case TypeOther:
		return "other"
	default:
		return "unknown"
	}
}

// Attribute names a single field of Attributes.
type Attribute int

const (
	AttrCreationTime Attribute = iota
	AttrGroup
	AttrFileKey
	AttrLastAccessTime
	AttrLastModifiedTime
	AttrLastChangedTime
	AttrName
	AttrOwner
	AttrPermissions
	AttrSize
	AttrType

	numAttributes
)

var attributeNames = [numAttributes]string{
	AttrCreationTime:     "creationTime",
	AttrGroup:            "group",
	AttrFileKey:          "fileKey",
	AttrLastAccessTime:   "lastAccessTime",
	AttrLastModifiedTime: "lastModifiedTime",
	AttrLastChangedTime:  "lastChangedTime",
	AttrName:             "name",
	AttrOwner:            "owner",
	AttrPermissions:      "permissions",
	AttrSize:             "size",
	AttrType:             "type",
}

// AllAttributes lists every attribute in declaration order.
func AllAttributes() []Attribute {
	out := make([]Attribute, 0, numAttributes)
	for a := Attribute(0); a < numAttributes; a++ {
		out = append(out, a)
	}
	return out
}

// String returns the attribute's name as used in attribute strings.
func (a Attribute) String() string {
	if a < 0 || a >= numAttributes {
		return "unknown"
	}
	return attributeNames[a]
}

// ParseAttribute looks up an attribute by name. Matching is case-insensitive.
func ParseAttribute(name string) (Attribute, bool) {
	for a, n := range attributeNames {
		if strings.EqualFold(n, name) {
			return Attribute(a), true
		}
	}
	return 0, false
}

// AttributeSet is a set of attributes.
type AttributeSet uint32

// NewAttributeSet returns a set containing attrs.
func NewAttributeSet(attrs ...Attribute) AttributeSet {
	var s AttributeSet
	for _, a := range attrs {
		s = s.With(a)
	}
	return s
}

// With returns s with a added.
func (s AttributeSet) With(a Attribute) AttributeSet { return s | 1<<uint(a) }

// Has reports whether a is in s.
func (s AttributeSet) Has(a Attribute) bool { return s&(1<<uint(a)) != 0 }

// Attributes holds the attributes of a single entry as reported by the
// remote side. Present records which fields were actually populated.
type Attributes struct {
	Name             string
	Type             FileType
	Size             int64
	FileKey          uint64
	CreationTime     time.Time
	LastAccessTime   time.Time
	LastModifiedTime time.Time
	LastChangedTime  time.Time
	Owner            string
	Group            string
	Permissions      fs.FileMode

	Present AttributeSet
}

// Has reports whether a was populated.
func (a *Attributes) Has(attr Attribute) bool { return a.Present.Has(attr) }

// IsRegularFile reports whether the entry is a regular file.
func (a *Attributes) IsRegularFile() bool { return a.Type == TypeRegular }

// IsDirectory reports whether the entry is a directory.
func (a *Attributes) IsDirectory() bool { return a.Type == TypeDirectory }

// IsSymbolicLink reports whether the entry is a symbolic link.
func (a *Attributes) IsSymbolicLink() bool { return a.Type == TypeSymlink }

// IsOther reports whether the entry is neither file, directory, nor link.
func (a *Attributes) IsOther() bool { return a.Type == TypeOther }

// Mode returns the entry's type bits combined with its permissions.
func (a *Attributes) Mode() fs.FileMode {
	mode := a.Permissions.Perm()
	switch a.Type {
	case TypeDirectory:
		mode |= fs.ModeDir
	case TypeSymlink:
		mode |= fs.ModeSymlink
	case TypeOther:
		mode |= fs.ModeIrregular
	}
	return mode
}

// Value returns the value of attr and whether it was populated.
func (a *Attributes) Value(attr Attribute) (any, bool) {
	if !a.Has(attr) {
		return nil, false
	}
	switch attr {
	case AttrCreationTime:
		return a.CreationTime, true
	case AttrGroup:
		return a.Group, true
	case AttrFileKey:
		return a.FileKey, true
	case AttrLastAccessTime:
		return a.LastAccessTime, true
	case AttrLastModifiedTime:
		return a.LastModifiedTime, true
	case AttrLastChangedTime:
		return a.LastChangedTime, true
	case AttrName:
		return a.Name, true
	case AttrOwner:
		return a.Owner, true
	case AttrPermissions:
		return a.Permissions, true
	case AttrSize:
		return a.Size, true
	case AttrType:
		return a.Type, true
	}
	return nil, false
}

// Map returns every populated attribute keyed by name. When the type is
// present the isRegularFile, isDirectory, isSymbolicLink, and isOther flags
// are included as well.
func (a *Attributes) Map() map[string]any {
	out := make(map[string]any)
	for _, attr := range AllAttributes() {
		if v, ok := a.Value(attr); ok {
			out[attr.String()] = v
		}
	}
	if a.Has(AttrType) {
		out["isRegularFile"] = a.IsRegularFile()
		out["isDirectory"] = a.IsDirectory()
		out["isSymbolicLink"] = a.IsSymbolicLink()
		out["isOther"] = a.IsOther()
	}
	return out
}
