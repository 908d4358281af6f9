// Package errors provides structured error handling for the shell-backed
// filesystem.
//
// Errors carry a code, a classification (retryable or permanent), optional
// context metadata and an optional cause. They remain compatible with the
// standard library (errors.Is, errors.As, errors.Unwrap).
//
// # Filesystem codes
//
// The filesystem layer maps each failure onto one code and wraps the matching
// io/fs sentinel as the cause:
//
//   - CodeNotFound wraps fs.ErrNotExist
//   - CodeAlreadyExists wraps fs.ErrExist
//   - CodeForbidden wraps fs.ErrPermission
//   - CodeDirectoryNotEmpty, CodeNotDirectory, CodeUnsupported
//   - CodeExecutionFailed wraps the *exec.ExecError of the failing command
//   - CodeTransport wraps whatever the SSH session returned
//
// so callers may branch on either form:
//
//	if errors.Is(err, fs.ErrNotExist) { ... }
//	if errors.GetCode(err) == errors.CodeNotFound { ... }
//
// # Retry
//
// Only transport failures and timeouts are retryable by default:
//
//	if errors.IsRetryable(err) {
//	    // reconnect and try again
//	}
//
// # Context
//
//	err = errors.WithContextMap(err, map[string]interface{}{
//	    "path":    "/var/log/app.log",
//	    "command": "truncate -s 0 \"/var/log/app.log\"",
//	})
//
// Context is included in ToJSON output.
package errors
