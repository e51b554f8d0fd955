// Package otel provides an OpenTelemetry implementation of memo.Metrics.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bjaus/memo"
)

const instrumentationName = "github.com/bjaus/memo/adapters/otel"

// Option configures the OpenTelemetry metrics.
type Option func(*config)

type config struct {
	provider metric.MeterProvider
	attrs    []attribute.KeyValue
}

// WithMeterProvider sets the provider the instruments are created from.
// The global provider is used by default.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		if mp != nil {
			c.provider = mp
		}
	}
}

// WithAttributes adds attributes to every measurement.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

type instruments struct {
	hits            metric.Int64Counter
	misses          metric.Int64Counter
	evictions       metric.Int64Counter
	computeDuration metric.Float64Histogram
	entries         metric.Int64Gauge

	attrs metric.MeasurementOption
	base  []attribute.KeyValue
}

// NewMetrics creates instruments for the memoizer called name. Instrument
// creation errors are passed to otel.Handle and leave a no-op instrument.
func NewMetrics(name string, opts ...Option) memo.Metrics {
	cfg := &config{provider: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.provider.Meter(instrumentationName)
	base := append([]attribute.KeyValue{attribute.String("memo.name", name)}, cfg.attrs...)
	m := &instruments{
		attrs: metric.WithAttributes(base...),
		base:  base,
	}

	var err error

	m.hits, err = meter.Int64Counter(
		"memo.hits",
		metric.WithDescription("Number of lookups served from stored results"),
	)
	if err != nil {
		otel.Handle(err)
	}

	m.misses, err = meter.Int64Counter(
		"memo.misses",
		metric.WithDescription("Number of lookups that required a computation"),
	)
	if err != nil {
		otel.Handle(err)
	}

	m.evictions, err = meter.Int64Counter(
		"memo.evictions",
		metric.WithDescription("Number of entries removed from the store"),
	)
	if err != nil {
		otel.Handle(err)
	}

	m.computeDuration, err = meter.Float64Histogram(
		"memo.compute.duration",
		metric.WithDescription("Duration of wrapped function calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}

	m.entries, err = meter.Int64Gauge(
		"memo.entries",
		metric.WithDescription("Number of stored results"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return m
}

func (m *instruments) Hit() {
	m.hits.Add(context.Background(), 1, m.attrs)
}

func (m *instruments) Miss() {
	m.misses.Add(context.Background(), 1, m.attrs)
}

func (m *instruments) Evict(reason memo.EvictReason) {
	m.evictions.Add(context.Background(), 1, m.with(attribute.String("reason", reason.String())))
}

func (m *instruments) Compute(d time.Duration, failed bool) {
	m.computeDuration.Record(context.Background(), d.Seconds(), m.with(attribute.Bool("failed", failed)))
}

func (m *instruments) Size(n int) {
	m.entries.Record(context.Background(), int64(n), m.attrs)
}

func (m *instruments) with(kv attribute.KeyValue) metric.MeasurementOption {
	attrs := make([]attribute.KeyValue, 0, len(m.base)+1)
	attrs = append(attrs, m.base...)
	return metric.WithAttributes(append(attrs, kv)...)
}

var _ memo.Metrics = (*instruments)(nil)
