package imgcache

import (
	"image"

	"github.com/opencontainers/go-digest"
)

// Image is a decoded, immutable RGBA pixel buffer shared by the cache and
// every caller that loaded it. It holds no reference back to the cache.
type Image struct {
	rgba   *image.RGBA
	digest digest.Digest
}

// NewImage wraps rgba. The caller must not modify rgba afterwards.
func NewImage(rgba *image.RGBA) *Image {
	return &Image{rgba: rgba}
}

// Width returns the width in pixels.
func (i *Image) Width() int {
	return i.rgba.Rect.Dx()
}

// Height returns the height in pixels.
func (i *Image) Height() int {
	return i.rgba.Rect.Dy()
}

// RGBA returns the pixel buffer. It must be treated as read-only.
func (i *Image) RGBA() *image.RGBA {
	return i.rgba
}

// Digest returns the digest of the encoded bytes the image was decoded from,
// or "" if the image was not produced by the cache.
func (i *Image) Digest() digest.Digest {
	return i.digest
}

// ByteSize returns the size of the pixel buffer in bytes.
func (i *Image) ByteSize() int {
	return len(i.rgba.Pix)
}
