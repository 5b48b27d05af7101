// Package imgcache provides a URI-addressed, decode-once image cache.
//
// ImageCache sits between a byte source that may answer asynchronously and a
// consumer that asks, once per frame, whether an image is ready to render. It
// decodes each resource at most once, shares the decoded pixels between all
// callers, rejects unsupported content before decoding it, and remembers
// failures so a broken resource is not fetched again on every frame.
//
// # Polling
//
// Load never blocks waiting for bytes. While the byte source is still working
// it returns a Pending outcome and the caller asks again on a later cycle.
// Pending is not remembered; only terminal outcomes are:
//
//	Absent → Pending (not cached) → Ready | Failed (cached until forgotten)
//
// # Admission
//
// Content passes three checks before it is decoded:
//
//  1. file:// URIs whose extension names an unreadable format are rejected
//     with format.ErrNotSupported before any I/O. Nothing is cached.
//  2. A MIME type reported by the byte source that names an unreadable format
//     fails with FORMAT_NOT_SUPPORTED. Generic download types are deferred.
//  3. Git LFS pointer files fail with FORMAT_NOT_SUPPORTED ("git-lfs").
//
// The bundled decoder additionally sniffs leading bytes and rejects formats
// whose read support is disabled.
//
// # Concurrency
//
// A single mutex guards the cache. It is held across the whole miss path
// (poll, decode, insert), so at most one decode runs at a time and the cache
// is never observed half-updated. Decoded images are immutable and may be read
// concurrently after Load returns them.
//
// # Memory accounting
//
// ByteSize reports the pixel footprint of cached images plus the declared
// footprint of cached failures. Eviction policy belongs to the host; see the
// budget package for an LRU trimmer built on Forget.
package imgcache
