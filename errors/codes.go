// Package errors provides the structured error taxonomy shared by the
// filesystem packages. Errors carry a code, a retry classification, optional
// context and an optional cause.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Filesystem errors.

	// CodeNotFound indicates the target path does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates the target path already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeForbidden indicates the remote user lacks the requested access.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeDirectoryNotEmpty indicates a directory could not be removed or
	// replaced because it still has entries.
	CodeDirectoryNotEmpty ErrorCode = "DIRECTORY_NOT_EMPTY"

	// CodeNotDirectory indicates a directory was required but the path is not one.
	CodeNotDirectory ErrorCode = "NOT_DIRECTORY"

	// CodeUnsupported indicates the remote toolchain cannot express the operation.
	CodeUnsupported ErrorCode = "UNSUPPORTED"

	// CodeProviderMismatch indicates paths from different mounts were mixed.
	CodeProviderMismatch ErrorCode = "PROVIDER_MISMATCH"

	// CodeClosed indicates an operation on a closed filesystem, channel or
	// watch service.
	CodeClosed ErrorCode = "CLOSED"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Execution errors.

	// CodeExecutionFailed indicates a remote command exited with a status the
	// caller could not map to a more specific condition.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// Transport errors.

	// CodeTransport indicates the session transport failed underneath a command.
	CodeTransport ErrorCode = "TRANSPORT_FAILURE"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
