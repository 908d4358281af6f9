package errors

import (
	"errors"
	"fmt"
)

// New creates a new PlatformError with the given code and message.
// The classification is the default for the code.
//
// Example:
//
//	err := errors.New(errors.CodeUnsupported, "atomic move is not supported")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a new PlatformError with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeInvalidInput, "negative size %d", size)
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message while preserving it as the cause.
//
// If err already carries a PlatformError its classification is preserved,
// otherwise the default classification for code is used.
//
// Returns nil if err is nil.
//
// Example:
//
//	res, err := session.Execute(ctx, cmd)
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeTransport, "session failed")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	return WrapWithContext(err, code, message, nil)
}

// Wrapf wraps an error with a formatted message.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps an error and attaches context metadata in a single operation.
// The context map is copied.
//
// Returns nil if err is nil.
//
// Example:
//
//	return errors.WrapWithContext(fs.ErrNotExist, errors.CodeNotFound, "no such file", map[string]interface{}{
//	    "path": p.String(),
//	})
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}

	classification := getDefaultClassification(code)
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		classification = platformErr.Classification()
	}

	return &platformError{
		code:           code,
		classification: classification,
		message:        message,
		context:        copyContext(ctx),
		cause:          err,
	}
}
