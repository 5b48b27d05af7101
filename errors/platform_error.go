package errors

import "fmt"

// headerSize approximates the fixed cost of a platformError value: code,
// classification and message headers plus the context and cause pointers.
const headerSize = 64

// platformError is the concrete implementation of PlatformError.
// It is private to enforce construction through package functions.
type platformError struct {
	code           ErrorCode
	classification ErrorClassification
	message        string
	context        map[string]interface{}
	cause          error
}

// Error returns the string representation of the error.
// Format: "[CODE] message" or "[CODE] message: cause" if cause is present.
func (e *platformError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code returns the error code.
func (e *platformError) Code() ErrorCode {
	return e.code
}

// Classification returns the error classification.
func (e *platformError) Classification() ErrorClassification {
	return e.classification
}

// Message returns the error message.
func (e *platformError) Message() string {
	return e.message
}

// Context returns a copy of the context map.
// Returns nil if no context has been attached.
func (e *platformError) Context() map[string]interface{} {
	return copyContext(e.context)
}

// ByteSize returns the header size plus the length of the message and of
// every string held in the context. A wrapped cause contributes its own size.
func (e *platformError) ByteSize() int {
	size := headerSize + len(e.message)
	for k, v := range e.context {
		size += len(k)
		if s, ok := v.(string); ok {
			size += len(s)
		}
	}
	if e.cause != nil {
		size += ByteSize(e.cause)
	}
	return size
}

// Unwrap returns the wrapped error for standard library compatibility.
func (e *platformError) Unwrap() error {
	return e.cause
}

func copyContext(ctx map[string]interface{}) map[string]interface{} {
	if ctx == nil {
		return nil
	}
	out := make(map[string]interface{}, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}

// toPlatformError returns err as a PlatformError, converting plain errors to
// one with CodeUnknown that wraps the original.
func toPlatformError(err error) PlatformError {
	var platformErr PlatformError
	if As(err, &platformErr) {
		return platformErr
	}
	return &platformError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
