package format

import (
	"bytes"
	"strings"

	"gopkg.in/h2non/filetype.v1"
	"gopkg.in/h2non/filetype.v1/types"

	"github.com/jmgilman/go/imgcache/uri"
)

// LargeFilePointerMarker starts the placeholder text that Git LFS checks out
// in place of a file whose content was never fetched.
var LargeFilePointerMarker = []byte("version https://git-lfs")

// LargeFilePointerFormat is the detected format reported for LFS placeholders.
const LargeFilePointerFormat = "git-lfs"

// Gate answers admission questions against a format table and a set of
// formats with read support.
type Gate struct {
	byExt    map[string]Format
	byMIME   map[string]Format
	readable map[string]bool
	deferred []string
}

// Option configures a Gate.
type Option func(*Gate)

// WithReadable replaces the set of readable formats.
func WithReadable(names ...string) Option {
	return func(g *Gate) {
		g.readable = make(map[string]bool, len(names))
		for _, n := range names {
			g.readable[strings.ToLower(n)] = true
		}
	}
}

// WithDisabled removes formats from the readable set.
func WithDisabled(names ...string) Option {
	return func(g *Gate) {
		for _, n := range names {
			delete(g.readable, strings.ToLower(n))
		}
	}
}

// WithDeferredMIMETypes adds media types to the deferral list.
func WithDeferredMIMETypes(mimes ...string) Option {
	return func(g *Gate) {
		for _, m := range mimes {
			if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
				g.deferred = append(g.deferred, m)
			}
		}
	}
}

// NewGate builds a gate over the Known table with DefaultReadable enabled.
// Options are applied in order.
func NewGate(opts ...Option) *Gate {
	g := &Gate{
		byExt:    make(map[string]Format),
		byMIME:   make(map[string]Format),
		deferred: append([]string(nil), DeferredMIMETypes...),
	}
	for _, f := range Known {
		for _, ext := range f.Extensions {
			g.byExt[ext] = f
		}
		for _, m := range f.MIMETypes {
			g.byMIME[m] = f
		}
	}
	WithReadable(DefaultReadable...)(g)

	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGate = NewGate()

// Default returns the gate used by the package-level functions.
func Default() *Gate {
	return defaultGate
}

// SupportedByExtension reports whether the default gate admits uri.
func SupportedByExtension(uri string) bool {
	return defaultGate.SupportedByExtension(uri)
}

// SupportedByMIME reports whether the default gate admits mime.
func SupportedByMIME(mime string) bool {
	return defaultGate.SupportedByMIME(mime)
}

// SupportedByExtension reports whether the extension of u names a readable
// format. A URI without an extension is admitted.
func (g *Gate) SupportedByExtension(u string) bool {
	ext := uri.Extension(u)
	if ext == "" {
		return true
	}
	f, ok := g.FromExtension(ext)
	return ok && g.Readable(f.Name)
}

// SupportedByMIME reports whether mime names a readable format. Deferred
// media types are admitted.
func (g *Gate) SupportedByMIME(mime string) bool {
	lower := strings.ToLower(mime)
	for _, m := range g.deferred {
		if strings.Contains(lower, m) {
			return true
		}
	}

	f, ok := g.FromMIME(mime)
	return ok && g.Readable(f.Name)
}

// FromExtension looks up a format by file extension, with or without the dot.
func (g *Gate) FromExtension(ext string) (Format, bool) {
	f, ok := g.byExt[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return f, ok
}

// FromMIME looks up a format by media type. Parameters after ';' are ignored.
func (g *Gate) FromMIME(mime string) (Format, bool) {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	f, ok := g.byMIME[strings.ToLower(strings.TrimSpace(mime))]
	return f, ok
}

// Readable reports whether read support for the named format is enabled.
func (g *Gate) Readable(name string) bool {
	return g.readable[strings.ToLower(name)]
}

// Sniff identifies the format of data from its leading bytes.
// It reports false when the bytes match no image format in the table.
func (g *Gate) Sniff(data []byte) (Format, bool) {
	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return Format{}, false
	}
	if kind.MIME.Type != "image" {
		return Format{}, false
	}
	if f, ok := g.FromMIME(kind.MIME.Value); ok {
		return f, true
	}
	return g.FromExtension(kind.Extension)
}

// IsLargeFilePointer reports whether data is a Git LFS pointer rather than
// real content.
func IsLargeFilePointer(data []byte) bool {
	return bytes.HasPrefix(data, LargeFilePointerMarker)
}
