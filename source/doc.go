// Package source provides byte-retrieval collaborators for the image loader.
//
// A Source is polled, never awaited: TryLoadBytes returns immediately with
// either a Pending poll, a Ready poll carrying the bytes and an optional MIME
// type, or an error. Blocking fetchers (local files, HTTP, S3, Git) are adapted to
// this protocol by Async, which runs each fetch in the background and reports
// Pending until it completes. Router dispatches URIs to sources by scheme.
//
// Errors from sources are classified with the errors package. Network-level
// failures are retryable; missing resources are permanent. The loader never
// caches source errors either way.
package source
