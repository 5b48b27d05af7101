// Package errors provides structured error handling for the image loader.
//
// This package extends Go's standard error handling with error codes, classification
// (retryable vs permanent), context metadata, a declared memory footprint, and JSON
// serialization. It stays compatible with the standard library errors package
// (errors.Is, errors.As, errors.Unwrap).
//
// # Classification and caching
//
// The loader memoizes permanent failures so a broken resource is not fetched and
// decoded on every poll. Retryable failures, typically raised by byte sources,
// are returned to the caller and never cached.
//
// # Quick Start
//
// Creating errors:
//
//	err := errors.New(errors.CodeNotSupported, "extension svg is not readable")
//	err := errors.Newf(errors.CodeFormatNotSupported, "cannot read %s", mime)
//
// Wrapping errors:
//
//	resp, err := client.Do(req)
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeNetwork, "failed to fetch image")
//	}
//
// Adding context:
//
//	err = errors.WithContext(err, "detected_format", "git-lfs")
//
// Retry logic:
//
//	if errors.IsRetryable(err) {
//	    // poll again on the next cycle
//	}
//
// Memory accounting:
//
//	size := errors.ByteSize(err)
package errors
