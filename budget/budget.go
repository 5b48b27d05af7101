// Package budget keeps an image cache within a byte budget by forgetting the
// least recently used URIs.
//
// The cache itself never evicts. A Trimmer records which URIs the host uses
// and, when asked, forgets the oldest ones until the cache's footprint fits
// the budget again. Forgotten URIs are reloaded on their next use.
package budget

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/jmgilman/go/imgcache/errors"
	"github.com/jmgilman/go/imgcache/uri"
)

// Target is the cache a Trimmer keeps within budget.
type Target interface {
	ByteSize() int
	Contains(uri string) bool
	Forget(uri string)
}

// Forgetter drops whatever is held for a URI, such as bytes kept by a byte
// source.
type Forgetter interface {
	Forget(uri string)
}

// Trimmer forgets least recently used URIs from a Target.
type Trimmer struct {
	mu         sync.Mutex
	target     Target
	maxBytes   int
	entries    map[string]*list.Element
	order      *list.List
	onTrim     func(uri string)
	forgetters []Forgetter
}

// Option configures a Trimmer.
type Option func(*Trimmer)

// WithOnTrim registers fn to be called for every URI the trimmer forgets.
func WithOnTrim(fn func(uri string)) Option {
	return func(t *Trimmer) {
		t.onTrim = fn
	}
}

// WithForgetters makes the trimmer also forget every trimmed URI from fs, so
// the next load fetches fresh bytes instead of reusing held ones.
func WithForgetters(fs ...Forgetter) Option {
	return func(t *Trimmer) {
		t.forgetters = append(t.forgetters, fs...)
	}
}

// New creates a trimmer keeping target within maxBytes.
func New(target Target, maxBytes int, opts ...Option) (*Trimmer, error) {
	if target == nil {
		return nil, errors.New(errors.CodeInvalidInput, "budget target is required")
	}
	if maxBytes <= 0 {
		return nil, errors.WithContext(
			errors.New(errors.CodeInvalidConfig, "budget must be positive"),
			"max_bytes", maxBytes,
		)
	}

	t := &Trimmer{
		target:   target,
		maxBytes: maxBytes,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Touch marks u as most recently used.
func (t *Trimmer) Touch(u string) {
	key := uri.StripFrame(u)

	t.mu.Lock()
	defer t.mu.Unlock()

	if elem, ok := t.entries[key]; ok {
		t.order.MoveToFront(elem)
		return
	}
	t.entries[key] = t.order.PushFront(key)
}

// Untrack stops tracking u without forgetting it.
func (t *Trimmer) Untrack(u string) {
	key := uri.StripFrame(u)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeLocked(key)
}

// Len returns the number of tracked URIs.
func (t *Trimmer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.order.Len()
}

// Trim forgets least recently used URIs until the target fits the budget and
// returns them oldest first. Tracked URIs without a cached outcome are
// dropped from tracking without counting as trimmed.
func (t *Trimmer) Trim(ctx context.Context) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var trimmed []string
	for t.target.ByteSize() > t.maxBytes {
		if err := ctx.Err(); err != nil {
			return trimmed, err
		}

		elem := t.order.Back()
		if elem == nil {
			break
		}
		key := elem.Value.(string)
		t.removeLocked(key)

		if !t.target.Contains(key) {
			continue
		}
		t.target.Forget(key)
		for _, f := range t.forgetters {
			f.Forget(key)
		}
		trimmed = append(trimmed, key)
		if t.onTrim != nil {
			t.onTrim(key)
		}
	}
	return trimmed, nil
}

// Run calls Trim every interval until ctx is done.
func (t *Trimmer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := t.Trim(ctx); err != nil {
				return err
			}
		}
	}
}

func (t *Trimmer) removeLocked(key string) {
	if elem, ok := t.entries[key]; ok {
		t.order.Remove(elem)
		delete(t.entries, key)
	}
}
