package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F'}
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
	icoHeader  = []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x10, 0x10}
)

func TestSupportedByExtension(t *testing.T) {
	tests := []struct {
		uri  string
		want bool
	}{
		{"https://test.png", true},
		{"test.jpeg", true},
		{"http://test.gif", true},
		{"file://test", true},
		{"test.svg", false},
		{"file:///photos/IMG_0001.JPG", true},
		{"file:///icons/app.ico", false},
		{"file:///doc.pdf", false},
		{"file:///scan.tif", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportedByExtension(tt.uri))
		})
	}
}

func TestSupportedByMIME(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want bool
	}{
		{"png", "image/png", true},
		{"jpeg with parameters", "image/jpeg; charset=binary", true},
		{"upper case", "IMAGE/GIF", true},
		{"octet stream", "application/octet-stream", true},
		{"octet stream with parameters", "application/octet-stream; charset=utf-8", true},
		{"forced download", "application/force-download", true},
		{"msdownload", "application/x-msdownload", true},
		{"svg", "image/svg+xml", false},
		{"html", "text/html; charset=utf-8", false},
		{"known but not readable", "image/avif", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportedByMIME(tt.mime))
		})
	}
}

func TestGate_Options(t *testing.T) {
	g := NewGate(WithDisabled(GIF), WithDeferredMIMETypes("binary/octet-stream"))

	require.False(t, g.SupportedByExtension("file:///a.gif"))
	require.False(t, g.SupportedByMIME("image/gif"))
	require.True(t, g.SupportedByExtension("file:///a.png"))
	require.True(t, g.SupportedByMIME("binary/octet-stream"))

	g = NewGate(WithReadable(ICO))
	require.True(t, g.SupportedByExtension("file:///a.ico"))
	require.False(t, g.SupportedByExtension("file:///a.png"))

	// The default gate is not affected by other gates.
	require.True(t, SupportedByExtension("file:///a.gif"))
}

func TestGate_Lookup(t *testing.T) {
	g := Default()

	f, ok := g.FromExtension(".JPG")
	require.True(t, ok)
	require.Equal(t, JPEG, f.Name)

	f, ok = g.FromMIME(" image/tiff ; q=1")
	require.True(t, ok)
	require.Equal(t, TIFF, f.Name)

	_, ok = g.FromMIME("image/svg+xml")
	require.False(t, ok)
}

func TestGate_Sniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
		ok   bool
	}{
		{"png", pngHeader, PNG, true},
		{"jpeg", jpegHeader, JPEG, true},
		{"gif", gifHeader, GIF, true},
		{"ico", icoHeader, ICO, true},
		{"text", []byte("hello, world"), "", false},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := Default().Sniff(tt.data)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, f.Name)
		})
	}
}

func TestIsLargeFilePointer(t *testing.T) {
	pointer := []byte("version https://git-lfs.github.com/spec/v1\noid sha256:abc\nsize 12\n")
	require.True(t, IsLargeFilePointer(pointer))
	require.False(t, IsLargeFilePointer(pngHeader))
	require.False(t, IsLargeFilePointer([]byte("version")))
}

func TestNotSupportedError(t *testing.T) {
	err := NotSupportedError("image/svg+xml")
	require.Equal(t, "FORMAT_NOT_SUPPORTED", string(err.Code()))

	detected, ok := DetectedFormat(err)
	require.True(t, ok)
	require.Equal(t, "image/svg+xml", detected)

	_, ok = DetectedFormat(NotSupportedError(""))
	require.False(t, ok)

	_, ok = DetectedFormat(ErrNotSupported)
	require.False(t, ok)
}
