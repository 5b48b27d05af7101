package source

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/jmgilman/go/imgcache/errors"
)

// DefaultMaxInFlight bounds concurrent background fetches when no limit is given.
const DefaultMaxInFlight = 8

type asyncEntry struct {
	done bool
	data []byte
	mime string
	err  error
}

// Async adapts a blocking Fetcher to the polling Source protocol.
//
// The first poll for a URI starts a background fetch and returns Pending.
// Later polls return Pending until the fetch finishes, then return its result
// on every poll until the URI is forgotten. Permanent failures are held too,
// so a caller that keeps polling sees the same error rather than a fresh
// fetch. Retryable failures are returned once and then dropped.
type Async struct {
	fetcher Fetcher
	sem     *semaphore.Weighted
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	entries map[string]*asyncEntry
	wg      sync.WaitGroup
}

// NewAsync wraps fetcher. Background fetches run under ctx and at most
// maxInFlight run at once; a non-positive value means DefaultMaxInFlight.
func NewAsync(ctx context.Context, fetcher Fetcher, maxInFlight int) *Async {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Async{
		fetcher: fetcher,
		sem:     semaphore.NewWeighted(int64(maxInFlight)),
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*asyncEntry),
	}
}

// TryLoadBytes implements Source. It never blocks on the fetch.
func (a *Async) TryLoadBytes(_ context.Context, uri string) (BytesPoll, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.entries[uri]
	if !ok {
		e = &asyncEntry{}
		a.entries[uri] = e
		a.wg.Add(1)
		go a.fetch(uri, e)
		return PendingPoll(nil), nil
	}

	if !e.done {
		return PendingPoll(nil), nil
	}
	if e.err != nil {
		// Transient failures are reported once; the next poll fetches again.
		if errors.IsRetryable(e.err) {
			delete(a.entries, uri)
		}
		return BytesPoll{}, e.err
	}
	return ReadyPoll(e.data, e.mime), nil
}

func (a *Async) fetch(uri string, e *asyncEntry) {
	defer a.wg.Done()

	var (
		data []byte
		mime string
		err  error
	)
	if err = a.sem.Acquire(a.ctx, 1); err == nil {
		data, mime, err = a.fetcher.Fetch(a.ctx, uri)
		a.sem.Release(1)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	// A forgotten entry is no longer in the map; its result is dropped.
	if a.entries[uri] != e {
		return
	}
	e.done = true
	e.data = data
	e.mime = mime
	e.err = err
}

// Forget implements Forgetter. A fetch still in flight for uri completes but
// its result is discarded.
func (a *Async) Forget(uri string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.entries, uri)
}

// ForgetAll implements Forgetter.
func (a *Async) ForgetAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = make(map[string]*asyncEntry)
}

// Close cancels in-flight fetches and waits for them to return.
func (a *Async) Close() error {
	a.cancel()
	a.wg.Wait()
	return nil
}
