package decode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/imgcache/errors"
	"github.com/jmgilman/go/imgcache/format"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	rgba, err := Bytes(encodePNG(t, 4, 3))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 3), rgba.Rect)
	require.Len(t, rgba.Pix, 4*3*4)
	require.Equal(t, color.RGBA{R: 2, G: 1, B: 0x80, A: 0xFF}, rgba.RGBAAt(2, 1))
}

func TestDecode_Corrupt(t *testing.T) {
	data := encodePNG(t, 2, 2)
	_, err := Bytes(data[:20])
	require.Error(t, err)
	require.Equal(t, errors.CodeDecodeFailed, errors.GetCode(err))
	require.False(t, errors.IsRetryable(err))
}

func TestDecode_Unrecognized(t *testing.T) {
	_, err := Bytes([]byte("definitely not an image"))
	require.Error(t, err)
	require.Equal(t, errors.CodeFormatNotSupported, errors.GetCode(err))
}

func TestDecode_DisabledFormat(t *testing.T) {
	d := New(format.NewGate(format.WithDisabled(format.PNG)))

	_, err := d.Decode(encodePNG(t, 1, 1))
	require.Error(t, err)
	require.Equal(t, errors.CodeFormatNotSupported, errors.GetCode(err))

	detected, ok := format.DetectedFormat(err)
	require.True(t, ok)
	require.Equal(t, format.PNG, detected)
}

func TestToRGBA_ShiftsOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 8))
	src.SetRGBA(5, 5, color.RGBA{R: 9, A: 0xFF})

	out := toRGBA(src)
	require.Equal(t, image.Rect(0, 0, 2, 3), out.Rect)
	require.Equal(t, color.RGBA{R: 9, A: 0xFF}, out.RGBAAt(0, 0))
}
