// Package errors provides the classified error system used by the image loader.
// It extends Go's standard error handling with structured error codes, retry classification,
// context preservation, and serialization for diagnostics.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Admission errors.

	// CodeNotSupported indicates a URI was rejected before any I/O took place.
	CodeNotSupported ErrorCode = "NOT_SUPPORTED"

	// CodeFormatNotSupported indicates content was rejected after its MIME type or
	// leading bytes identified a format the decoder cannot read.
	CodeFormatNotSupported ErrorCode = "FORMAT_NOT_SUPPORTED"

	// Decode errors.

	// CodeDecodeFailed indicates the decoder could not turn bytes into pixels.
	CodeDecodeFailed ErrorCode = "DECODE_FAILED"

	// Retrieval errors.

	// CodeSourceFailed indicates a byte source failed to produce bytes.
	CodeSourceFailed ErrorCode = "SOURCE_FAILED"

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeNetwork indicates a network operation failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeUnavailable indicates the remote service is temporarily unavailable.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// System errors.

	// CodeInternal indicates an internal system error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
