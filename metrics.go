package imgcache

import (
	"sync"
	"time"
)

// maxLatencySamples bounds the decode latency window.
const maxLatencySamples = 1000

// Metrics collects counters for cache operations. It is safe for concurrent use.
type Metrics struct {
	mu sync.RWMutex

	hits   int64
	misses int64

	pending        int64
	decodes        int64
	decodeFailures int64
	dedupeHits     int64
	rejections     int64
	sourceErrors   int64
	evictions      int64

	bytesStored   int64
	entriesStored int64

	decodeLatencies []time.Duration

	startTime         time.Time
	peakBytesStored   int64
	peakEntriesStored int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Hits    int64
	Misses  int64
	HitRate float64

	// Pending counts polls that found the bytes not yet available.
	Pending int64
	// Decodes counts decode attempts, successful or not.
	Decodes        int64
	DecodeFailures int64
	// DedupeHits counts misses served by an image decoded under another URI.
	DedupeHits int64
	// Rejections counts content refused before decoding.
	Rejections   int64
	SourceErrors int64
	Evictions    int64

	BytesStored   int64
	EntriesStored int64

	AverageDecodeLatency time.Duration
	DecodeLatencySamples int

	Uptime            time.Duration
	PeakBytesStored   int64
	PeakEntriesStored int64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime:       time.Now(),
		decodeLatencies: make([]time.Duration, 0, maxLatencySamples),
	}
}

// RecordHit records a load served from the cache.
func (m *Metrics) RecordHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

// RecordMiss records a load that had to poll the byte source.
func (m *Metrics) RecordMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

// RecordPending records a poll that found no bytes yet.
func (m *Metrics) RecordPending() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending++
}

// RecordDecode records a decode attempt and its duration.
func (m *Metrics) RecordDecode(duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.decodes++
	if failed {
		m.decodeFailures++
	}
	m.decodeLatencies = append(m.decodeLatencies, duration)
	if len(m.decodeLatencies) > maxLatencySamples {
		m.decodeLatencies = m.decodeLatencies[len(m.decodeLatencies)-maxLatencySamples/2:]
	}
}

// RecordDedupe records a miss satisfied by an already decoded image.
func (m *Metrics) RecordDedupe() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dedupeHits++
}

// RecordRejection records content refused by an admission check.
func (m *Metrics) RecordRejection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections++
}

// RecordSourceError records a byte source failure.
func (m *Metrics) RecordSourceError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourceErrors++
}

// RecordInsert records a new cache entry of the given footprint.
func (m *Metrics) RecordInsert(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bytesStored += int64(bytes)
	m.entriesStored++
	if m.bytesStored > m.peakBytesStored {
		m.peakBytesStored = m.bytesStored
	}
	if m.entriesStored > m.peakEntriesStored {
		m.peakEntriesStored = m.entriesStored
	}
}

// RecordEviction records the removal of a cache entry.
func (m *Metrics) RecordEviction(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictions++
	m.bytesStored -= int64(bytes)
	m.entriesStored--
}

// Snapshot returns a copy of the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hitRate float64
	if total := m.hits + m.misses; total > 0 {
		hitRate = float64(m.hits) / float64(total)
	}

	var avg time.Duration
	if n := len(m.decodeLatencies); n > 0 {
		var total time.Duration
		for _, d := range m.decodeLatencies {
			total += d
		}
		avg = total / time.Duration(n)
	}

	return MetricsSnapshot{
		Hits:                 m.hits,
		Misses:               m.misses,
		HitRate:              hitRate,
		Pending:              m.pending,
		Decodes:              m.decodes,
		DecodeFailures:       m.decodeFailures,
		DedupeHits:           m.dedupeHits,
		Rejections:           m.rejections,
		SourceErrors:         m.sourceErrors,
		Evictions:            m.evictions,
		BytesStored:          m.bytesStored,
		EntriesStored:        m.entriesStored,
		AverageDecodeLatency: avg,
		DecodeLatencySamples: len(m.decodeLatencies),
		Uptime:               time.Since(m.startTime),
		PeakBytesStored:      m.peakBytesStored,
		PeakEntriesStored:    m.peakEntriesStored,
	}
}

// Reset clears all counters. Stored bytes and entries describe current cache
// contents and are kept; peaks restart from them.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits, m.misses = 0, 0
	m.pending, m.decodes, m.decodeFailures, m.dedupeHits = 0, 0, 0, 0
	m.rejections, m.sourceErrors, m.evictions = 0, 0, 0
	m.peakBytesStored, m.peakEntriesStored = m.bytesStored, m.entriesStored
	m.decodeLatencies = m.decodeLatencies[:0]
	m.startTime = time.Now()
}
