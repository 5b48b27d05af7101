package errors

// ErrorClassification indicates whether an error should trigger a retry.
// The loader uses it to decide whether a failure is worth remembering: permanent
// failures are cached, retryable ones are not.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed on retry.
	// Examples: network timeouts, an unavailable object store.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on retry.
	// Examples: unsupported formats, corrupt image data.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeSourceFailed: ClassificationRetryable,
	CodeNetwork:      ClassificationRetryable,
	CodeTimeout:      ClassificationRetryable,
	CodeUnavailable:  ClassificationRetryable,

	CodeNotSupported:       ClassificationPermanent,
	CodeFormatNotSupported: ClassificationPermanent,
	CodeDecodeFailed:       ClassificationPermanent,
	CodeNotFound:           ClassificationPermanent,
	CodeInvalidInput:       ClassificationPermanent,
	CodeInvalidConfig:      ClassificationPermanent,

	CodeInternal: ClassificationPermanent,
	CodeUnknown:  ClassificationPermanent,
}

// getDefaultClassification returns the default classification for an error code.
// Returns ClassificationPermanent if the code is not in the map.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
