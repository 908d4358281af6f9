package core

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"
)

// FSType represents the underlying type of filesystem implementation.
type FSType int

const (
	// FSTypeUnknown indicates the filesystem type is unknown or unspecified.
	FSTypeUnknown FSType = iota
	// FSTypeLocal indicates a local filesystem (e.g., disk-backed).
	FSTypeLocal
	// FSTypeMemory indicates an in-memory filesystem.
	FSTypeMemory
	// FSTypeRemote indicates a remote filesystem reached over a session.
	FSTypeRemote
)

// String returns a string representation of the FSType.
func (t FSType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeMemory:
		return "memory"
	case FSTypeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Path is a hierarchical path bound to the filesystem that created it.
// P is the provider's concrete path type.
//
// Paths are immutable values: every operation returns a new path.
type Path[P any] interface {
	fmt.Stringer

	// IsAbsolute reports whether the path starts at the root.
	IsAbsolute() bool

	// NameCount returns the number of name elements. The root has none.
	NameCount() int

	// FileName returns the last name element, or false for the root.
	FileName() (P, bool)

	// Parent returns the path without its last element, or false when
	// there is none.
	Parent() (P, bool)

	// Resolve joins other onto the path. An absolute other is returned as is.
	Resolve(other P) (P, error)

	// Relativize returns the path that, resolved against this one, yields other.
	Relativize(other P) (P, error)

	// Normalize removes "." and "name/.." elements.
	Normalize() P

	// ToAbsolute resolves the path against the default directory.
	ToAbsolute() P

	// StartsWith reports whether the path begins with other's elements.
	StartsWith(other P) bool

	// EndsWith reports whether the path ends with other's elements.
	EndsWith(other P) bool

	// Compare orders two paths by their string forms.
	Compare(other P) (int, error)
}

// FileSystem is the contract for a path-based filesystem provider.
// Every operation that reaches the remote side takes a context.
type FileSystem[P any] interface {
	// Path builds a path by joining first and more with the separator.
	Path(first string, more ...string) P

	// Root returns the filesystem root.
	Root() P

	// Separator returns the name separator.
	Separator() string

	// Type returns the underlying filesystem type.
	Type() FSType

	// PathMatcher compiles a "syntax:pattern" string.
	PathMatcher(syntaxAndPattern string) (PathMatcher, error)

	// CheckAccess returns nil if the path exists and grants every mode.
	CheckAccess(ctx context.Context, path P, modes ...AccessMode) error

	// Delete removes a file or an empty directory.
	Delete(ctx context.Context, path P) error

	// Copy copies src to dst.
	Copy(ctx context.Context, src, dst P, opts ...CopyOption) error

	// Move renames src to dst.
	Move(ctx context.Context, src, dst P, opts ...CopyOption) error

	// ReadAttributes reads the basic attributes of a path.
	ReadAttributes(ctx context.Context, path P) (*Attributes, error)

	// NewReader streams the content of a file.
	NewReader(ctx context.Context, path P) (io.ReadCloser, error)

	// Close releases the filesystem's session.
	Close() error
}

// PathMatcher matches paths against a compiled pattern.
type PathMatcher interface {
	// Match reports whether the string form of path matches.
	Match(path fmt.Stringer) bool
}

// Channel is a seekable byte channel over a single file.
//
// Reads and writes advance the position. Seeking past the end is allowed;
// a later write fills the gap.
type Channel interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Truncater

	// Position returns the current offset.
	Position() int64

	// Size returns the current file size as tracked by the channel.
	Size() int64
}

// Truncater allows truncating a file to a specified size.
//
// Not all implementations support truncation. Callers should use
// type assertion to check if this capability is available:
//
//	if t, ok := file.(Truncater); ok {
//	    err := t.Truncate(size)
//	}
type Truncater interface {
	// Truncate shrinks the file to size. It never grows the file.
	Truncate(size int64) error
}

// Syncer allows syncing file contents to stable storage.
type Syncer interface {
	// Sync commits the current contents of the file to stable storage.
	Sync() error
}

// WatchKey is the registration of a directory with a watch service.
type WatchKey[P any] interface {
	// PollEvents returns and clears the pending events.
	PollEvents() []WatchEvent[P]

	// Reset re-arms the key. It returns false once the key is invalid.
	Reset() bool

	// Cancel unregisters the key and stops watching.
	Cancel()

	// IsValid reports whether the key is still registered.
	IsValid() bool

	// Watchable returns the watched directory.
	Watchable() P
}

// WatchService hands out keys that have pending events. K is the
// provider's concrete key type.
type WatchService[K any] interface {
	// Poll returns a signalled key without blocking.
	Poll() (K, bool, error)

	// PollTimeout waits up to timeout for a signalled key.
	PollTimeout(timeout time.Duration) (K, bool, error)

	// Take blocks until a key is signalled or ctx is done.
	Take(ctx context.Context) (K, error)

	// Close cancels every key and wakes blocked callers.
	Close() error
}

// TreeWriter is the destination of CopyTree. Names are slash-separated and
// relative to the destination root.
type TreeWriter interface {
	MkdirAll(ctx context.Context, name string, perm fs.FileMode) error
	WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) error
}
