package uri

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	encoded := EncodeFrame("https://example.com/a.gif", 3)
	require.Equal(t, "https://example.com/a.gif#3", encoded)

	base, index, err := DecodeFrame(encoded)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/a.gif", base)
	require.Equal(t, 3, index)
}

func TestDecodeFrame_Errors(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"no separator", "file://a.webp"},
		{"empty index", "file://a.webp#"},
		{"not a number", "https://example.com/page#section"},
		{"negative", "file://a.gif#-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeFrame(tt.uri)
			require.Error(t, err)
		})
	}
}

func TestStripFrame(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file://a.gif#0", "file://a.gif"},
		{"file://a#b.gif#12", "file://a#b.gif"},
		{"file://a.gif", "file://a.gif"},
		{"https://example.com/a.png#top", "https://example.com/a.png#top"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			require.Equal(t, tt.want, StripFrame(tt.uri))
		})
	}
}

func TestScheme(t *testing.T) {
	require.Equal(t, "file", Scheme("file://a.png"))
	require.Equal(t, "https", Scheme("HTTPS://example.com/a.png"))
	require.Equal(t, "s3", Scheme("s3://bucket/key.png"))
	require.Equal(t, "", Scheme("test.png"))
	require.Equal(t, "", Scheme("://x"))

	require.True(t, IsFile("file://a.png"))
	require.False(t, IsFile("https://a.png"))
}

func TestFilePath(t *testing.T) {
	require.Equal(t, "/tmp/a.png", FilePath("file:///tmp/a.png"))
	require.Equal(t, "/tmp/my image.png", FilePath("file:///tmp/my%20image.png"))
	require.Equal(t, "/tmp/100%.png", FilePath("file:///tmp/100%.png"))
}

func TestExtension(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"https://test.png", "png"},
		{"test.jpeg", "jpeg"},
		{"http://test.gif", "gif"},
		{"file://test", ""},
		{"test.svg", "svg"},
		{"file:///dir.d/IMAGE.PNG", "png"},
		{"https://example.com/a.webp?size=2", "webp"},
		{"file:///home/.hidden", ""},
		{"file:///trailing.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			require.Equal(t, tt.want, Extension(tt.uri))
		})
	}
}
