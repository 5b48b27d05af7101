// Package format decides, without decoding, whether image content is worth
// handing to the decoder.
//
// A Gate answers two byte-free questions: is a URI's file extension readable,
// and is a MIME type readable. Both look the value up in a table of known
// formats and then check that read support for the format is enabled. A URI
// without an extension is admitted optimistically. A handful of generic MIME
// types that servers use for arbitrary downloads are deferred: they are
// admitted so that later stages can look at the bytes.
//
// Gates are immutable once built and safe for concurrent use.
package format
