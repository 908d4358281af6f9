package core

// AccessMode is a permission checked by CheckAccess.
type AccessMode int

const (
	// AccessRead checks that the path is readable.
	AccessRead AccessMode = iota + 1
	// AccessWrite checks that the path is writable.
	AccessWrite
	// AccessExecute checks that the path is executable.
	AccessExecute
)

// String returns the lowercase name of the mode.
func (m AccessMode) String() string {
	switch m {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// CopyOption modifies Copy and Move.
type CopyOption int

const (
	// ReplaceExisting replaces the destination if it exists. A non-empty
	// directory is never replaced.
	ReplaceExisting CopyOption = iota + 1
	// CopyAttributes asks for attributes to be copied along with content.
	CopyAttributes
	// AtomicMove asks for the move to be atomic.
	AtomicMove
	// NoFollowLinks asks for symbolic links to be copied rather than followed.
	NoFollowLinks
)

// OpenOption configures how a file is opened.
type OpenOption int

const (
	// OpenRead opens for reading.
	OpenRead OpenOption = iota + 1
	// OpenWrite opens for writing.
	OpenWrite
	// OpenAppend positions every write at the end of the file.
	OpenAppend
	// OpenCreate creates the file if it does not exist.
	OpenCreate
	// OpenCreateNew creates the file and fails if it already exists.
	OpenCreateNew
	// OpenTruncateExisting truncates an existing file opened for writing.
	OpenTruncateExisting
	// OpenDeleteOnClose deletes the file when it is closed.
	OpenDeleteOnClose
	// OpenSparse is a hint that the file will be sparse.
	OpenSparse
	// OpenSync requests synchronous writes of content and metadata.
	OpenSync
	// OpenDSync requests synchronous writes of content.
	OpenDSync
)

// OpenOptions is the set of options passed to an open call.
type OpenOptions map[OpenOption]struct{}

// NewOpenOptions collects opts into a set.
func NewOpenOptions(opts ...OpenOption) OpenOptions {
	set := make(OpenOptions, len(opts))
	for _, o := range opts {
		set[o] = struct{}{}
	}
	return set
}

// Has reports whether o is in the set.
func (s OpenOptions) Has(o OpenOption) bool {
	_, ok := s[o]
	return ok
}

// HasCopyOption reports whether want is among opts.
func HasCopyOption(opts []CopyOption, want CopyOption) bool {
	for _, o := range opts {
		if o == want {
			return true
		}
	}
	return false
}
