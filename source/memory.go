package source

import (
	"context"
	"sync"

	"github.com/jmgilman/go/imgcache/errors"
)

type memoryEntry struct {
	poll BytesPoll
	err  error
}

// Memory is a Source backed by a map. It answers from whatever has been put
// into it, which makes it useful for bundled assets and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Put stores ready bytes for uri.
func (m *Memory) Put(uri string, data []byte, mime string) {
	m.set(uri, memoryEntry{poll: ReadyPoll(data, mime)})
}

// PutPending marks uri as still loading.
func (m *Memory) PutPending(uri string, size *Size) {
	m.set(uri, memoryEntry{poll: PendingPoll(size)})
}

// PutError makes polls for uri fail with err.
func (m *Memory) PutError(uri string, err error) {
	m.set(uri, memoryEntry{err: err})
}

func (m *Memory) set(uri string, e memoryEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[uri] = e
}

// TryLoadBytes implements Source. Unknown URIs fail with CodeNotFound.
func (m *Memory) TryLoadBytes(_ context.Context, uri string) (BytesPoll, error) {
	m.mu.RLock()
	e, ok := m.entries[uri]
	m.mu.RUnlock()

	if !ok {
		return BytesPoll{}, errors.WithContext(
			errors.New(errors.CodeNotFound, "no bytes registered"), "uri", uri)
	}
	if e.err != nil {
		return BytesPoll{}, e.err
	}
	return e.poll, nil
}

// Forget implements Forgetter.
func (m *Memory) Forget(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, uri)
}

// ForgetAll implements Forgetter.
func (m *Memory) ForgetAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
}
