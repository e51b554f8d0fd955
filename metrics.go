package memo

import "time"

// Metrics receives instrumentation events from a Memoizer. Implementations
// must be safe for concurrent use; see the adapters directory for
// Prometheus and OpenTelemetry backends.
type Metrics interface {
	// Hit records a lookup that found a stored result.
	Hit()
	// Miss records a lookup that had to compute.
	Miss()
	// Evict records an entry leaving the store.
	Evict(reason EvictReason)
	// Compute records one invocation of the wrapped function.
	Compute(d time.Duration, failed bool)
	// Size reports the number of stored entries after a change.
	Size(n int)
}

type nopMetrics struct{}

func (nopMetrics) Hit()                        {}
func (nopMetrics) Miss()                       {}
func (nopMetrics) Evict(EvictReason)           {}
func (nopMetrics) Compute(time.Duration, bool) {}
func (nopMetrics) Size(int)                    {}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics { return nopMetrics{} }
