package imgcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordHit()
	m.RecordHit()
	m.RecordHit()
	m.RecordMiss()
	m.RecordPending()
	m.RecordDecode(10*time.Millisecond, false)
	m.RecordDecode(30*time.Millisecond, true)
	m.RecordDedupe()
	m.RecordRejection()
	m.RecordSourceError()
	m.RecordInsert(100)
	m.RecordInsert(50)
	m.RecordEviction(100)

	s := m.Snapshot()
	assert.EqualValues(t, 3, s.Hits)
	assert.EqualValues(t, 1, s.Misses)
	assert.InDelta(t, 0.75, s.HitRate, 0.001)
	assert.EqualValues(t, 1, s.Pending)
	assert.EqualValues(t, 2, s.Decodes)
	assert.EqualValues(t, 1, s.DecodeFailures)
	assert.EqualValues(t, 1, s.DedupeHits)
	assert.EqualValues(t, 1, s.Rejections)
	assert.EqualValues(t, 1, s.SourceErrors)
	assert.EqualValues(t, 1, s.Evictions)
	assert.EqualValues(t, 50, s.BytesStored)
	assert.EqualValues(t, 1, s.EntriesStored)
	assert.EqualValues(t, 150, s.PeakBytesStored)
	assert.EqualValues(t, 2, s.PeakEntriesStored)
	assert.Equal(t, 20*time.Millisecond, s.AverageDecodeLatency)
	assert.Equal(t, 2, s.DecodeLatencySamples)
}

func TestMetrics_SnapshotEmpty(t *testing.T) {
	s := NewMetrics().Snapshot()
	assert.Zero(t, s.HitRate)
	assert.Zero(t, s.AverageDecodeLatency)
}

func TestMetrics_LatencySamplesAreBounded(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < maxLatencySamples+1; i++ {
		m.RecordDecode(time.Millisecond, false)
	}
	s := m.Snapshot()
	assert.LessOrEqual(t, s.DecodeLatencySamples, maxLatencySamples)
	assert.EqualValues(t, maxLatencySamples+1, s.Decodes)
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.RecordHit()
	m.RecordMiss()
	m.RecordInsert(64)
	m.RecordInsert(64)
	m.RecordEviction(64)

	m.Reset()
	s := m.Snapshot()
	assert.Zero(t, s.Hits)
	assert.Zero(t, s.Misses)
	assert.Zero(t, s.Evictions)
	assert.EqualValues(t, 64, s.BytesStored)
	assert.EqualValues(t, 1, s.EntriesStored)
	assert.EqualValues(t, 64, s.PeakBytesStored)
}
