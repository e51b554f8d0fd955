package prometheus

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/memo"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewMetrics(reg)
	require.NotNil(t, pm)

	m := memo.NewFallible(func(x int) (int, error) {
		if x < 0 {
			return 0, errors.New("negative")
		}
		return x * x, nil
	},
		memo.WithMaxSize[int, int](2),
		memo.WithMetrics[int, int](pm.For("squares")),
	)

	m.Call(1)
	m.Call(1)
	m.Call(2)
	m.Call(3)
	m.Call(-1)

	assert.InDelta(t, 1, testutil.ToFloat64(pm.hits.WithLabelValues("squares")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(pm.misses.WithLabelValues("squares")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pm.evictions.WithLabelValues("squares", "capacity")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pm.entries.WithLabelValues("squares")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(pm.computeDuration, "memo_compute_duration_seconds"), "one series per outcome")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}

	assert.True(t, names["memo_hits_total"])
	assert.True(t, names["memo_misses_total"])
	assert.True(t, names["memo_evictions_total"])
	assert.True(t, names["memo_compute_duration_seconds"])
	assert.True(t, names["memo_entries"])
}

func TestMemoizersShareCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewMetrics(reg)

	a := memo.New(func(x int) int { return x }, memo.WithMetrics[int, int](pm.For("a")))
	b := memo.New(func(s string) int { return len(s) }, memo.WithMetrics[string, int](pm.For("b")))

	a.Call(1)
	a.Call(1)
	b.Call("x")

	assert.InDelta(t, 1, testutil.ToFloat64(pm.hits.WithLabelValues("a")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(pm.hits.WithLabelValues("b")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pm.misses.WithLabelValues("b")), 0)
}

func TestNewMetricsRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	assert.Panics(t, func() { NewMetrics(reg) })
}
