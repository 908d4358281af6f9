// Package errs builds the typed errors returned by the shell filesystem.
//
// Every error is a PlatformError wrapping an io/fs or core sentinel so
// callers can test with errors.Is against fs.ErrNotExist or inspect the
// code with errors.GetCode.
package errs

import (
	"context"
	stderrors "errors"
	"io/fs"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/fs/core"
)

// PathError wraps sentinel in a fs.PathError for op and path and tags it
// with code.
func PathError(code errors.ErrorCode, message, op, path string, sentinel error) error {
	return errors.WrapWithContext(
		&fs.PathError{Op: op, Path: path, Err: sentinel},
		code,
		message,
		map[string]interface{}{"path": path},
	)
}

// NotFound reports that path does not exist.
func NotFound(op, path string) error {
	return PathError(errors.CodeNotFound, "no such file or directory", op, path, fs.ErrNotExist)
}

// AccessDenied reports that the remote user lacks access to path.
func AccessDenied(op, path string) error {
	return PathError(errors.CodeForbidden, "access denied", op, path, fs.ErrPermission)
}

// AlreadyExists reports that path exists.
func AlreadyExists(op, path string) error {
	return PathError(errors.CodeAlreadyExists, "file already exists", op, path, fs.ErrExist)
}

// DirectoryNotEmpty reports that the directory at path still has entries.
func DirectoryNotEmpty(op, path string) error {
	return PathError(errors.CodeDirectoryNotEmpty, "directory not empty", op, path, core.ErrDirectoryNotEmpty)
}

// NotDirectory reports that path is not a directory.
func NotDirectory(op, path string) error {
	return PathError(errors.CodeNotDirectory, "not a directory", op, path, core.ErrNotDirectory)
}

// Unsupported reports an operation the remote toolchain cannot express.
func Unsupported(op, path string) error {
	return PathError(errors.CodeUnsupported, "operation not supported", op, path, core.ErrUnsupported)
}

// Closed reports use of a closed filesystem, channel, or watch service.
func Closed(op, path string) error {
	return PathError(errors.CodeClosed, "use of closed resource", op, path, fs.ErrClosed)
}

// ProviderMismatch reports that paths from different filesystems were mixed.
func ProviderMismatch(op string) error {
	return errors.Wrap(core.ErrProviderMismatch, errors.CodeProviderMismatch, op)
}

// InvalidInput tags err as caller error.
func InvalidInput(message string, err error) error {
	return errors.Wrap(err, errors.CodeInvalidInput, message)
}

// CommandFailed reports a command that exited nonzero with no more
// specific meaning. The command text, exit code, and output are kept.
func CommandFailed(command string, res *exec.Result) error {
	execErr := exec.NewExecError(command, res)
	return errors.WrapWithContext(execErr, errors.CodeExecutionFailed, "remote command failed", map[string]interface{}{
		"command":   command,
		"exit_code": execErr.ExitCode,
	})
}

// Transport reports that the session failed while running command.
func Transport(command string, err error) error {
	if err == nil {
		return nil
	}
	var pe errors.PlatformError
	if stderrors.As(err, &pe) {
		return err
	}
	code := errors.CodeTransport
	if stderrors.Is(err, context.DeadlineExceeded) {
		code = errors.CodeTimeout
	}
	if stderrors.Is(err, exec.ErrSessionClosed) {
		code = errors.CodeClosed
	}
	return errors.WrapWithContext(err, code, "session failure", map[string]interface{}{
		"command": command,
	})
}

// IsCommandFailed reports whether err came from CommandFailed.
func IsCommandFailed(err error) bool {
	var execErr *exec.ExecError
	return stderrors.As(err, &execErr)
}
