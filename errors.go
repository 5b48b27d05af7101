package imgcache

import (
	"github.com/jmgilman/go/imgcache/errors"
	"github.com/jmgilman/go/imgcache/format"
)

// ErrNotSupported is returned by Load for file URIs whose extension names a
// format without read support.
var ErrNotSupported = format.ErrNotSupported

// IsFormatNotSupported reports whether err rejected content after looking at
// its MIME type or bytes, and returns the detected format if one was recorded.
func IsFormatNotSupported(err error) (string, bool) {
	if errors.GetCode(err) != errors.CodeFormatNotSupported {
		return "", false
	}
	detected, _ := format.DetectedFormat(err)
	return detected, true
}
