package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/bjaus/memo"
)

func collect(t *testing.T, reader sdkmetric.Reader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)

	var total int64
	for _, dp := range sum.DataPoints {
		match := true
		for _, kv := range attrs {
			if v, ok := dp.Attributes.Value(kv.Key); !ok || v.Emit() != kv.Value.Emit() {
				match = false
			}
		}
		if match {
			total += dp.Value
		}
	}
	return total
}

func TestNewMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m := memo.New(func(x int) int { return x * x },
		memo.WithMaxSize[int, int](2),
		memo.WithMetrics[int, int](NewMetrics("squares",
			WithMeterProvider(mp),
			WithAttributes(attribute.String("service", "test")),
		)),
	)

	m.Call(1)
	m.Call(1)
	m.Call(2)
	m.Call(3)

	data := collect(t, reader)
	name := attribute.String("memo.name", "squares")

	assert.Equal(t, int64(1), sumOf(t, data["memo.hits"], name))
	assert.Equal(t, int64(3), sumOf(t, data["memo.misses"], name, attribute.String("service", "test")))
	assert.Equal(t, int64(1), sumOf(t, data["memo.evictions"], attribute.String("reason", "capacity")))

	hist, ok := data["memo.compute.duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(3), hist.DataPoints[0].Count)

	gauge, ok := data["memo.entries"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(2), gauge.DataPoints[0].Value)
}

func TestNewMetricsUsesGlobalProvider(t *testing.T) {
	m := NewMetrics("global")
	require.NotNil(t, m)

	// the default global provider is a no-op; recording must not panic
	m.Hit()
	m.Miss()
	m.Evict(memo.ReasonExpired)
	m.Size(3)
}
