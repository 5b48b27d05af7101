package imgcache

import (
	"context"
	"sync"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/jmgilman/go/imgcache/decode"
	"github.com/jmgilman/go/imgcache/errors"
	"github.com/jmgilman/go/imgcache/format"
	"github.com/jmgilman/go/imgcache/source"
	"github.com/jmgilman/go/imgcache/uri"
)

// ID identifies the image cache among the loaders registered with a host.
const ID = "github.com/jmgilman/go/imgcache.ImageCache"

// Loader is the contract a host uses to drive image loaders.
type Loader interface {
	ID() string
	Load(ctx context.Context, uri string, hint SizeHint) (LoadOutcome, error)
	Forget(uri string)
	ForgetAll()
	ByteSize() int
}

// entry is a terminal outcome. Exactly one of image and err is set.
type entry struct {
	image *Image
	err   error
	size  int
}

func (e entry) outcome() (LoadOutcome, error) {
	if e.err != nil {
		return LoadOutcome{}, e.err
	}
	return readyOutcome(e.image), nil
}

type sharedImage struct {
	image *Image
	refs  int
}

// ImageCache memoizes decode outcomes by URI.
type ImageCache struct {
	mu      sync.Mutex
	entries map[string]entry
	shared  map[digest.Digest]*sharedImage
	bytes   int

	source  source.Source
	gate    *format.Gate
	decode  DecodeFunc
	dedupe  bool
	logger  *Logger
	metrics *Metrics
}

var _ Loader = (*ImageCache)(nil)

// New creates an image cache polling src for bytes.
func New(src source.Source, opts ...Option) *ImageCache {
	o := options{dedupe: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.gate == nil {
		o.gate = format.Default()
	}
	if o.decode == nil {
		o.decode = DecoderFunc(decode.New(o.gate))
	}
	if o.logger == nil {
		o.logger = NewNopLogger()
	}
	if o.metrics == nil {
		o.metrics = NewMetrics()
	}

	return &ImageCache{
		entries: make(map[string]entry),
		shared:  make(map[digest.Digest]*sharedImage),
		source:  src,
		gate:    o.gate,
		decode:  o.decode,
		dedupe:  o.dedupe,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// ID returns the loader identity.
func (c *ImageCache) ID() string {
	return ID
}

// Metrics returns the metrics sink.
func (c *ImageCache) Metrics() *Metrics {
	return c.metrics
}

// Load returns the image for u, polling the byte source and decoding on the
// first call that finds bytes ready. A frame-index suffix on u is ignored.
//
// Load returns a Pending outcome while the bytes are not available, a Ready
// outcome once the image is decoded, or an error. Decode failures and
// rejected content are remembered and returned again on later calls without
// touching the byte source. Byte source errors are returned as-is and are not
// remembered. The size hint is not used.
func (c *ImageCache) Load(ctx context.Context, u string, _ SizeHint) (LoadOutcome, error) {
	key := uri.StripFrame(u)

	if uri.IsFile(key) && !c.gate.SupportedByExtension(key) {
		c.metrics.RecordRejection()
		return LoadOutcome{}, format.ErrNotSupported
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.metrics.RecordHit()
		LogCacheHit(ctx, c.logger, key, e.err != nil)
		return e.outcome()
	}
	c.metrics.RecordMiss()

	poll, err := c.source.TryLoadBytes(ctx, key)
	if err != nil {
		c.metrics.RecordSourceError()
		LogCacheMiss(ctx, c.logger, key, "source error")
		return LoadOutcome{}, err
	}
	if poll.State != source.Ready {
		c.metrics.RecordPending()
		return pendingOutcome(poll.Size), nil
	}

	if poll.MIME != "" && !c.gate.SupportedByMIME(poll.MIME) {
		c.metrics.RecordRejection()
		return c.insertLocked(ctx, key, entry{err: format.NotSupportedError(poll.MIME)})
	}
	if format.IsLargeFilePointer(poll.Bytes) {
		c.metrics.RecordRejection()
		return c.insertLocked(ctx, key, entry{err: format.NotSupportedError(format.LargeFilePointerFormat)})
	}

	return c.insertLocked(ctx, key, c.decodeLocked(ctx, key, poll.Bytes))
}

// decodeLocked decodes data, reusing an image already decoded from identical
// bytes when dedupe is enabled.
func (c *ImageCache) decodeLocked(ctx context.Context, key string, data []byte) entry {
	var dgst digest.Digest
	if c.dedupe {
		dgst = digest.FromBytes(data)
		if s, ok := c.shared[dgst]; ok {
			c.metrics.RecordDedupe()
			c.logger.WithDigest(dgst.String()).Debug(ctx, "reusing decoded image", "uri", key)
			return entry{image: s.image}
		}
	}

	logger := c.logger.WithOperation(OpDecode)
	logger.Debug(ctx, "started loading", "uri", key, "bytes", len(data))

	start := time.Now()
	img, err := c.decode(data)
	duration := time.Since(start)
	c.metrics.RecordDecode(duration, err != nil)

	if err == nil && img == nil {
		err = errors.New(errors.CodeInternal, "decoder returned no image")
	}
	if err != nil {
		LogDecode(ctx, logger, key, duration, 0, err)
		return entry{err: err}
	}

	if c.dedupe {
		// Images from a custom decoder may be shared already; tag a copy of
		// the handle rather than mutating it.
		if img.digest != "" && img.digest != dgst {
			img = &Image{rgba: img.rgba}
		}
		img.digest = dgst
	}
	LogDecode(ctx, logger, key, duration, img.ByteSize(), nil)
	return entry{image: img}
}

// insertLocked stores a terminal outcome and returns it.
func (c *ImageCache) insertLocked(ctx context.Context, key string, e entry) (LoadOutcome, error) {
	if e.err != nil {
		e.size = errors.ByteSize(e.err)
	} else {
		e.size = e.image.ByteSize()
		if c.dedupe && e.image.digest != "" {
			s, ok := c.shared[e.image.digest]
			if !ok {
				s = &sharedImage{image: e.image}
				c.shared[e.image.digest] = s
			}
			s.refs++
		}
	}

	c.entries[key] = e
	c.bytes += e.size
	c.metrics.RecordInsert(e.size)
	c.logger.Debug(ctx, "cache entry stored", "uri", key, "size", e.size, "failed", e.err != nil)
	return e.outcome()
}

// removeLocked drops the entry for key, if any.
func (c *ImageCache) removeLocked(key string, reason string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	c.bytes -= e.size

	if e.image != nil && e.image.digest != "" {
		if s, ok := c.shared[e.image.digest]; ok {
			s.refs--
			if s.refs <= 0 {
				delete(c.shared, e.image.digest)
			}
		}
	}

	c.metrics.RecordEviction(e.size)
	LogEviction(context.Background(), c.logger, key, e.size, reason)
}

// Forget removes the cached outcome for u. It is a no-op if there is none.
// Held bytes in the byte source are not affected.
func (c *ImageCache) Forget(u string) {
	key := uri.StripFrame(u)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key, string(OpForget))
}

// ForgetAll removes every cached outcome.
func (c *ImageCache) ForgetAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		c.removeLocked(key, string(OpForgetAll))
	}
	c.bytes = 0
}

// ByteSize returns the summed footprint of all cached outcomes: pixel bytes
// for images, declared size for failures.
func (c *ImageCache) ByteSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

// Len returns the number of cached outcomes.
func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Contains reports whether u has a cached outcome.
func (c *ImageCache) Contains(u string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[uri.StripFrame(u)]
	return ok
}
