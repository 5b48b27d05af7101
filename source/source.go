package source

import (
	"context"
)

// PollState tells whether bytes are available yet.
type PollState int

const (
	// Pending means the bytes are still being retrieved; poll again later.
	Pending PollState = iota
	// Ready means the bytes are available.
	Ready
)

// String returns a string representation of the PollState.
func (s PollState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Size is an advisory image size in points.
type Size struct {
	Width  float32
	Height float32
}

// BytesPoll is the result of polling a Source.
type BytesPoll struct {
	State PollState
	// Size is an advisory size. It may be nil.
	Size *Size
	// Bytes holds the raw content when State is Ready. Callers must not modify it.
	Bytes []byte
	// MIME is the content type reported alongside Bytes. Empty means unknown.
	MIME string
}

// PendingPoll returns a Pending poll carrying an optional advisory size.
func PendingPoll(size *Size) BytesPoll {
	return BytesPoll{State: Pending, Size: size}
}

// ReadyPoll returns a Ready poll.
func ReadyPoll(data []byte, mime string) BytesPoll {
	return BytesPoll{State: Ready, Bytes: data, MIME: mime}
}

// Source supplies raw bytes for a URI, possibly across multiple polls.
// Implementations must be safe for concurrent use and must not block waiting
// for bytes.
type Source interface {
	TryLoadBytes(ctx context.Context, uri string) (BytesPoll, error)
}

// Forgetter is implemented by sources that hold on to fetched bytes.
type Forgetter interface {
	// Forget drops anything held for uri.
	Forget(uri string)
	// ForgetAll drops everything held.
	ForgetAll()
}

// Fetcher retrieves the complete content of a URI, blocking until done.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (data []byte, mime string, err error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string) ([]byte, string, error)

// Fetch calls f(ctx, uri).
func (f FetcherFunc) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	return f(ctx, uri)
}
