// Package prometheus provides a Prometheus implementation of memo.Metrics.
package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bjaus/memo"
)

// Default histogram buckets for computation latency (in seconds).
var defaultBuckets = []float64{
	.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}

// Metrics holds the Prometheus collectors shared by all memoizers of a
// process. Use For to obtain the memo.Metrics of one memoizer.
type Metrics struct {
	hits            *prometheus.CounterVec
	misses          *prometheus.CounterVec
	evictions       *prometheus.CounterVec
	computeDuration *prometheus.HistogramVec
	entries         *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memo_hits_total",
			Help: "Total number of lookups served from stored results",
		}, []string{"memoizer"}),

		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memo_misses_total",
			Help: "Total number of lookups that required a computation",
		}, []string{"memoizer"}),

		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memo_evictions_total",
			Help: "Total number of entries removed from the store",
		}, []string{"memoizer", "reason"}),

		computeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "memo_compute_duration_seconds",
			Help:    "Wrapped function latency in seconds",
			Buckets: defaultBuckets,
		}, []string{"memoizer", "failed"}),

		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "memo_entries",
			Help: "Number of stored results",
		}, []string{"memoizer"}),
	}

	reg.MustRegister(
		m.hits,
		m.misses,
		m.evictions,
		m.computeDuration,
		m.entries,
	)

	return m
}

// For returns the memo.Metrics of the memoizer called name.
func (m *Metrics) For(name string) memo.Metrics {
	return &memoizerMetrics{
		hits:    m.hits.WithLabelValues(name),
		misses:  m.misses.WithLabelValues(name),
		entries: m.entries.WithLabelValues(name),
		name:    name,
		parent:  m,
	}
}

// memoizerMetrics implements memo.Metrics for one memoizer label.
type memoizerMetrics struct {
	hits    prometheus.Counter
	misses  prometheus.Counter
	entries prometheus.Gauge
	name    string
	parent  *Metrics
}

func (m *memoizerMetrics) Hit() {
	m.hits.Inc()
}

func (m *memoizerMetrics) Miss() {
	m.misses.Inc()
}

func (m *memoizerMetrics) Evict(reason memo.EvictReason) {
	m.parent.evictions.WithLabelValues(m.name, reason.String()).Inc()
}

func (m *memoizerMetrics) Compute(d time.Duration, failed bool) {
	m.parent.computeDuration.WithLabelValues(m.name, strconv.FormatBool(failed)).Observe(d.Seconds())
}

func (m *memoizerMetrics) Size(n int) {
	m.entries.Set(float64(n))
}

var _ memo.Metrics = (*memoizerMetrics)(nil)
