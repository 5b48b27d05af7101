package imgcache

import (
	"github.com/jmgilman/go/imgcache/decode"
	"github.com/jmgilman/go/imgcache/format"
)

// DecodeFunc turns encoded bytes into an image. It must be safe to call from
// any goroutine and must not retain data.
type DecodeFunc func(data []byte) (*Image, error)

// DecoderFunc adapts a decode.Decoder to a DecodeFunc.
func DecoderFunc(d *decode.Decoder) DecodeFunc {
	return func(data []byte) (*Image, error) {
		rgba, err := d.Decode(data)
		if err != nil {
			return nil, err
		}
		return NewImage(rgba), nil
	}
}

type options struct {
	gate    *format.Gate
	decode  DecodeFunc
	logger  *Logger
	metrics *Metrics
	dedupe  bool
}

// Option configures an ImageCache.
type Option func(*options)

// WithGate sets the format gate used for extension and MIME admission. The
// default decoder, if used, shares it.
func WithGate(g *format.Gate) Option {
	return func(o *options) { o.gate = g }
}

// WithDecoder replaces the decode collaborator.
func WithDecoder(fn DecodeFunc) Option {
	return func(o *options) { o.decode = fn }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the metrics sink. Defaults to a private instance.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithDedupe controls whether identical content arriving under different URIs
// shares one decoded image. Enabled by default.
func WithDedupe(enabled bool) Option {
	return func(o *options) { o.dedupe = enabled }
}
