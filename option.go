package memo

import "log/slog"

// Mode selects how concurrent calls are coordinated.
type Mode int

const (
	// Global holds one lock across lookup, computation and insertion.
	// At most one computation is in flight per Memoizer, for any argument.
	Global Mode = iota

	// PerKey holds the lock only for lookup and insertion. Computations
	// for the same argument are deduplicated; computations for different
	// arguments run in parallel.
	PerKey
)

func (m Mode) String() string {
	if m == PerKey {
		return "per-key"
	}
	return "global"
}

type config[A comparable, V any] struct {
	maxSize         int
	bounded         bool
	policy          Policy
	mode            Mode
	hasher          Hasher[A]
	fingerprintOnly bool
	clock           Clock
	logger          *slog.Logger
	metrics         Metrics
	onEvict         func(A, V, EvictReason)
	onHit           func(A, V)
	onMiss          func(A)
}

func defaultConfig[A comparable, V any]() config[A, V] {
	return config[A, V]{
		policy:  LRU,
		mode:    Global,
		hasher:  defaultHasher[A](),
		clock:   realClock{},
		logger:  slog.New(slog.DiscardHandler),
		metrics: NopMetrics(),
	}
}

// Option configures a Memoizer.
type Option[A comparable, V any] func(*config[A, V])

// WithMaxSize bounds the number of stored results. Zero disables storage
// so every call recomputes. Negative values are ignored and the Memoizer
// stays unbounded, which is also the default.
func WithMaxSize[A comparable, V any](n int) Option[A, V] {
	return func(c *config[A, V]) {
		if n >= 0 {
			c.maxSize = n
			c.bounded = true
		}
	}
}

// WithPolicy sets the eviction policy. The default is LRU.
func WithPolicy[A comparable, V any](p Policy) Option[A, V] {
	return func(c *config[A, V]) {
		c.policy = p
	}
}

// WithMode sets the concurrency mode. The default is Global.
func WithMode[A comparable, V any](m Mode) Option[A, V] {
	return func(c *config[A, V]) {
		c.mode = m
	}
}

// WithHasher replaces the fingerprint function.
func WithHasher[A comparable, V any](h Hasher[A]) Option[A, V] {
	return func(c *config[A, V]) {
		if h != nil {
			c.hasher = h
		}
	}
}

// WithFingerprintOnly makes lookups trust the fingerprint alone. Two
// different arguments with the same fingerprint then share one result.
// By default the stored argument is compared and a mismatch is a miss.
func WithFingerprintOnly[A comparable, V any]() Option[A, V] {
	return func(c *config[A, V]) {
		c.fingerprintOnly = true
	}
}

// WithClock sets a custom clock for entry timestamps.
// Useful for testing TTL behavior.
func WithClock[A comparable, V any](clk Clock) Option[A, V] {
	return func(c *config[A, V]) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sets the logger for eviction and failure records, emitted at
// debug level. Logging is discarded by default.
func WithLogger[A comparable, V any](l *slog.Logger) Option[A, V] {
	return func(c *config[A, V]) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics[A comparable, V any](m Metrics) Option[A, V] {
	return func(c *config[A, V]) {
		if m != nil {
			c.metrics = m
		}
	}
}

// OnEvict sets a callback invoked when an entry leaves the store.
// It runs under the Memoizer's lock.
func OnEvict[A comparable, V any](fn func(A, V, EvictReason)) Option[A, V] {
	return func(c *config[A, V]) {
		c.onEvict = fn
	}
}

// OnHit sets a callback invoked on cache hits.
// It runs under the Memoizer's lock.
func OnHit[A comparable, V any](fn func(A, V)) Option[A, V] {
	return func(c *config[A, V]) {
		c.onHit = fn
	}
}

// OnMiss sets a callback invoked on cache misses, before computing.
// It runs under the Memoizer's lock.
func OnMiss[A comparable, V any](fn func(A)) Option[A, V] {
	return func(c *config[A, V]) {
		c.onMiss = fn
	}
}
