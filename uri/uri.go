// Package uri contains helpers for the image URIs handed to the loader.
//
// Hosts address individual frames of animated images by appending a
// "#<index>" suffix to the resource URI. The loader and byte sources only care
// about the resource itself, so the suffix is stripped before lookup.
package uri

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FileScheme is the prefix of local file URIs.
const FileScheme = "file://"

const frameSeparator = "#"

// EncodeFrame returns the URI addressing frame index of the resource at uri.
//
// Example:
//   - ("https://example.com/a.gif", 3) → https://example.com/a.gif#3
func EncodeFrame(uri string, index int) string {
	return uri + frameSeparator + strconv.Itoa(index)
}

// DecodeFrame splits a frame URI into the resource URI and the frame index.
// It fails if uri has no "#" separator or the text after the last separator is
// not a non-negative integer.
func DecodeFrame(uri string) (string, int, error) {
	i := strings.LastIndex(uri, frameSeparator)
	if i < 0 {
		return "", 0, fmt.Errorf("failed to find index separator %q in %q", frameSeparator, uri)
	}

	raw := uri[i+len(frameSeparator):]
	index, err := strconv.ParseUint(raw, 10, strconv.IntSize-1)
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse frame index: %q is not a number", raw)
	}
	return uri[:i], int(index), nil
}

// StripFrame returns uri without its frame-index suffix. URIs that do not
// carry a valid suffix are returned unchanged.
func StripFrame(uri string) string {
	if base, _, err := DecodeFrame(uri); err == nil {
		return base
	}
	return uri
}

// IsFile reports whether uri names a local file.
func IsFile(uri string) bool {
	return strings.HasPrefix(uri, FileScheme)
}

// Scheme returns the lower-cased scheme of uri, or "" if it has none.
func Scheme(uri string) string {
	i := strings.Index(uri, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(uri[:i])
}

// FilePath returns the filesystem path named by a file URI. Percent-escapes in
// the path are decoded; a URI that cannot be unescaped is returned verbatim
// after the scheme.
func FilePath(uri string) string {
	raw := strings.TrimPrefix(uri, FileScheme)
	if p, err := url.PathUnescape(raw); err == nil {
		return p
	}
	return raw
}

// Extension returns the lower-cased extension of the last path element of uri,
// without the leading dot. Query strings and fragments are ignored, and a dot
// leading the element (".hidden") is not an extension.
func Extension(uri string) string {
	p := uri
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if i := strings.Index(p, "://"); i >= 0 {
		p = p[i+len("://"):]
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}

	dot := strings.LastIndex(p, ".")
	if dot <= 0 || dot == len(p)-1 {
		return ""
	}
	return strings.ToLower(p[dot+1:])
}
