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

// GetCode extracts the ErrorCode from an error.
// Returns CodeUnknown if the error is nil or not a PlatformError.
//
// The code is taken from the outermost PlatformError in the chain.
//
// Example:
//
//	if errors.GetCode(err) == errors.CodeFormatNotSupported {
//	    // Skip this resource
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

// GetClassification extracts the ErrorClassification from an error.
// Returns ClassificationPermanent if the error is nil or not a PlatformError.
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
// Returns false if the error is nil or not a PlatformError.
func IsRetryable(err error) bool {
	return GetClassification(err).IsRetryable()
}

// GetContextValue returns the value stored under key in the outermost
// PlatformError's context.
func GetContextValue(err error, key string) (interface{}, bool) {
	var platformErr PlatformError
	if err == nil || !stderrors.As(err, &platformErr) {
		return nil, false
	}
	v, ok := platformErr.Context()[key]
	return v, ok
}

// ByteSize reports the memory footprint an error declares.
// Errors implementing ByteSize() int declare their own footprint; any other
// error is sized by the length of its message. A nil error has size zero.
func ByteSize(err error) int {
	if err == nil {
		return 0
	}
	if sized, ok := err.(interface{ ByteSize() int }); ok {
		return sized.ByteSize()
	}
	return len(err.Error())
}
