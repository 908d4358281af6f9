package errors

import (
	stderrors "errors"
)

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard library errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode extracts the code of the outermost PlatformError in err's chain.
// Returns CodeUnknown if the error is nil or not a PlatformError.
//
// Example:
//
//	if errors.GetCode(err) == errors.CodeDirectoryNotEmpty {
//	    // fall back to a recursive delete
//	}
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Code()
	}

	return CodeUnknown
}

// HasCode reports whether any PlatformError in err's chain carries code.
// Unlike GetCode it looks past the outermost PlatformError.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if platformErr, ok := err.(PlatformError); ok && platformErr.Code() == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// GetClassification extracts the classification of the outermost
// PlatformError in err's chain. Returns ClassificationPermanent if the error
// is nil or not a PlatformError.
func GetClassification(err error) ErrorClassification {
	if err == nil {
		return ClassificationPermanent
	}

	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Classification()
	}

	return ClassificationPermanent
}

// IsRetryable returns true if the error is classified as retryable.
//
// Example:
//
//	for attempt := 0; ; attempt++ {
//	    _, err := fsys.ReadAttributes(ctx, p)
//	    if err == nil || !errors.IsRetryable(err) || attempt == 3 {
//	        return err
//	    }
//	}
func IsRetryable(err error) bool {
	return GetClassification(err).IsRetryable()
}
