package core

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotExist is returned when a file or directory does not exist.
	// Re-exported from io/fs for convenience.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when a file or directory already exists.
	// Re-exported from io/fs for convenience.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when permission is denied.
	// Re-exported from io/fs for convenience.
	ErrPermission = fs.ErrPermission

	// ErrClosed is returned when an operation is performed on a closed
	// filesystem or channel. Re-exported from io/fs for convenience.
	ErrClosed = fs.ErrClosed

	// ErrUnsupported is returned when an operation is not supported by the
	// provider, for example an atomic move over a shell.
	ErrUnsupported = errors.New("operation not supported")

	// ErrDirectoryNotEmpty is returned when a directory that still has
	// entries is removed or replaced.
	ErrDirectoryNotEmpty = errors.New("directory not empty")

	// ErrNotDirectory is returned when a directory is required.
	ErrNotDirectory = errors.New("not a directory")

	// ErrProviderMismatch is returned when paths from two different
	// filesystems are combined or compared.
	ErrProviderMismatch = errors.New("paths belong to different filesystems")

	// ErrInvalidPath is returned for malformed paths or out of range
	// path indexes.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotReadable is returned when reading from a channel opened without
	// read access.
	ErrNotReadable = errors.New("channel not open for reading")

	// ErrNotWritable is returned when writing to a channel opened without
	// write access.
	ErrNotWritable = errors.New("channel not open for writing")

	// ErrClosedWatchService is returned by a watch service after Close.
	ErrClosedWatchService = errors.New("watch service closed")
)
