package format

import (
	"github.com/jmgilman/go/imgcache/errors"
)

// DetectedFormatKey is the error context key holding the detected format.
const DetectedFormatKey = "detected_format"

// ErrNotSupported is returned when a URI is rejected by its extension before
// any bytes are fetched.
var ErrNotSupported = errors.New(errors.CodeNotSupported, "image format not supported")

// NotSupportedError reports content rejected after its MIME type or leading
// bytes were examined. detected names what was found and may be empty.
func NotSupportedError(detected string) errors.PlatformError {
	err := errors.New(errors.CodeFormatNotSupported, "image format not supported")
	if detected == "" {
		return err
	}
	return errors.WithContext(err, DetectedFormatKey, detected)
}

// DetectedFormat returns the format recorded on an error created by
// NotSupportedError.
func DetectedFormat(err error) (string, bool) {
	v, ok := errors.GetContextValue(err, DetectedFormatKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
