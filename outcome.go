package imgcache

import (
	"github.com/jmgilman/go/imgcache/source"
)

// LoadState tells whether a load has produced an image yet.
type LoadState int

const (
	// StateUnknown is the zero value, carried by the outcome returned with an
	// error.
	StateUnknown LoadState = iota
	// StatePending means the bytes are not available yet; call Load again later.
	StatePending
	// StateReady means the image is decoded and available.
	StateReady
)

// String returns a string representation of the LoadState.
func (s LoadState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// LoadOutcome is the successful result of Load. Failures are reported through
// the accompanying error instead.
type LoadOutcome struct {
	State LoadState
	// Size is the advisory size reported by the byte source while pending.
	Size *source.Size
	// Image is set when State is StateReady.
	Image *Image
}

// Pending reports whether the caller should poll again.
func (o LoadOutcome) Pending() bool {
	return o.State == StatePending
}

// Ready reports whether Image is available.
func (o LoadOutcome) Ready() bool {
	return o.State == StateReady
}

func pendingOutcome(size *source.Size) LoadOutcome {
	return LoadOutcome{State: StatePending, Size: size}
}

func readyOutcome(img *Image) LoadOutcome {
	return LoadOutcome{State: StateReady, Image: img}
}

// SizeHint tells a loader what size the caller intends to draw at. The image
// cache accepts it for interface compatibility but does not use it: images are
// always decoded at their native size.
type SizeHint struct {
	// Scale multiplies the native size. Zero means unspecified.
	Scale float32
	// Width and Height request an exact size in pixels. Zero means unspecified.
	Width  uint32
	Height uint32
}

// DefaultSizeHint asks for the native size.
var DefaultSizeHint = SizeHint{Scale: 1}
