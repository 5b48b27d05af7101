// Package decode is the bundled decode collaborator: it turns encoded bytes
// into an RGBA pixel buffer using the standard library codecs plus BMP, TIFF
// and WebP from golang.org/x/image.
package decode

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP

	"github.com/jmgilman/go/imgcache/errors"
	"github.com/jmgilman/go/imgcache/format"
)

// Decoder decodes bytes into pixels. Sniffed formats whose read support is
// disabled in Gate are rejected before decoding.
type Decoder struct {
	Gate *format.Gate
}

// New returns a decoder checking sniffed formats against gate. A nil gate
// means format.Default().
func New(gate *format.Gate) *Decoder {
	if gate == nil {
		gate = format.Default()
	}
	return &Decoder{Gate: gate}
}

// Bytes decodes data with the default gate.
func Bytes(data []byte) (*image.RGBA, error) {
	return New(nil).Decode(data)
}

// Decode turns data into an RGBA image whose bounds start at the origin.
func (d *Decoder) Decode(data []byte) (*image.RGBA, error) {
	gate := d.Gate
	if gate == nil {
		gate = format.Default()
	}

	if f, ok := gate.Sniff(data); ok && !gate.Readable(f.Name) {
		return nil, format.NotSupportedError(f.Name)
	}

	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, errors.Wrap(err, errors.CodeFormatNotSupported, "unrecognized image format")
		}
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeDecodeFailed, "failed to decode image"),
			"format", name)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}
