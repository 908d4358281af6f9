package errors

// ErrorClassification indicates whether an error should trigger a retry.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed on retry,
	// such as a dropped SSH connection.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on retry,
	// such as a missing file or a denied permission.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeTransport: ClassificationRetryable,
	CodeTimeout:   ClassificationRetryable,

	CodeNotFound:          ClassificationPermanent,
	CodeAlreadyExists:     ClassificationPermanent,
	CodeForbidden:         ClassificationPermanent,
	CodeDirectoryNotEmpty: ClassificationPermanent,
	CodeNotDirectory:      ClassificationPermanent,
	CodeUnsupported:       ClassificationPermanent,
	CodeProviderMismatch:  ClassificationPermanent,
	CodeClosed:            ClassificationPermanent,
	CodeInvalidInput:      ClassificationPermanent,
	CodeInvalidConfig:     ClassificationPermanent,

	// A failed command is permanent by default; callers that know the
	// failure was transient override it with WithClassification.
	CodeExecutionFailed: ClassificationPermanent,

	CodeInternal: ClassificationPermanent,
	CodeUnknown:  ClassificationPermanent,
}

// getDefaultClassification returns the default classification for an error code.
// Unknown codes are permanent.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
