package imgcache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports an ImageCache's state and metrics to Prometheus.
type Collector struct {
	cache *ImageCache

	bytes       *prometheus.Desc
	entries     *prometheus.Desc
	hits        *prometheus.Desc
	misses      *prometheus.Desc
	pending     *prometheus.Desc
	decodes     *prometheus.Desc
	decodeFails *prometheus.Desc
	rejections  *prometheus.Desc
	sourceErrs  *prometheus.Desc
	evictions   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for cache. Metric names are prefixed with
// namespace, which defaults to "imgcache".
func NewCollector(cache *ImageCache, namespace string) *Collector {
	if namespace == "" {
		namespace = "imgcache"
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		cache:       cache,
		bytes:       desc("bytes", "Footprint of cached images and failures in bytes."),
		entries:     desc("entries", "Number of cached outcomes."),
		hits:        desc("hits_total", "Loads served from the cache."),
		misses:      desc("misses_total", "Loads that polled the byte source."),
		pending:     desc("pending_total", "Polls that found bytes not yet available."),
		decodes:     desc("decodes_total", "Decode attempts."),
		decodeFails: desc("decode_failures_total", "Failed decode attempts."),
		rejections:  desc("rejections_total", "Content refused before decoding."),
		sourceErrs:  desc("source_errors_total", "Byte source failures."),
		evictions:   desc("evictions_total", "Entries removed by forget."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.bytes, c.entries, c.hits, c.misses, c.pending,
		c.decodes, c.decodeFails, c.rejections, c.sourceErrs, c.evictions,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.cache.Metrics().Snapshot()

	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}

	gauge(c.bytes, float64(c.cache.ByteSize()))
	gauge(c.entries, float64(c.cache.Len()))
	counter(c.hits, snap.Hits)
	counter(c.misses, snap.Misses)
	counter(c.pending, snap.Pending)
	counter(c.decodes, snap.Decodes)
	counter(c.decodeFails, snap.DecodeFailures)
	counter(c.rejections, snap.Rejections)
	counter(c.sourceErrs, snap.SourceErrors)
	counter(c.evictions, snap.Evictions)
}
