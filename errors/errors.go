package errors

// PlatformError extends the standard error interface with structured information.
//
// Every error leaving the filesystem packages is a PlatformError wrapping the
// matching io/fs sentinel, so both errors.Is(err, fs.ErrNotExist) and
// GetCode(err) == CodeNotFound hold for a missing path.
type PlatformError interface {
	error

	// Code returns the error code identifying the type of error.
	Code() ErrorCode

	// Classification returns whether the error is retryable or permanent.
	Classification() ErrorClassification

	// Message returns the human-readable error message.
	Message() string

	// Context returns attached metadata as a read-only map.
	// Returns nil if no context has been attached.
	Context() map[string]interface{}

	// Unwrap returns the wrapped error, or nil.
	Unwrap() error
}
