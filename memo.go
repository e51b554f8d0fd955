package memo

import (
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memoizer caches the results of a pure function keyed by its argument.
type Memoizer[A comparable, V any] struct {
	mu    sync.Mutex
	fn    func(A) (V, error)
	store *store[A, V]
	cfg   config[A, V]
	stats Stats

	// in-flight computations in PerKey mode, keyed by fingerprint
	flight singleflight.Group
}

type flightResult[A comparable, V any] struct {
	args  A
	value V
}

// New wraps fn in a Memoizer. fn must be safe to call from multiple
// goroutines and return the same result for equal arguments.
func New[A comparable, V any](fn func(A) V, opts ...Option[A, V]) *Memoizer[A, V] {
	return NewFallible(func(args A) (V, error) {
		return fn(args), nil
	}, opts...)
}

// NewFallible wraps a function that can fail. Failed computations are
// never stored; the next call with the same argument retries.
func NewFallible[A comparable, V any](fn func(A) (V, error), opts ...Option[A, V]) *Memoizer[A, V] {
	cfg := defaultConfig[A, V]()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memoizer[A, V]{
		fn:    fn,
		cfg:   cfg,
		store: newStore[A, V](cfg.policy, cfg.clock),
	}
	m.store.onRemove = m.removed
	return m
}

// Call returns the result of the wrapped function for args, computing it
// only if no stored result exists. For a fallible function a failed
// computation yields the zero value; use Do to see the error.
func (m *Memoizer[A, V]) Call(args A) V {
	v, _ := m.Do(args)
	return v
}

// Do is like Call but also returns the error of a failed computation.
// A panic in the wrapped function propagates to the caller; the Memoizer
// stays usable and nothing is stored.
func (m *Memoizer[A, V]) Do(args A) (V, error) {
	fp := m.cfg.hasher(args)
	if m.cfg.mode == PerKey {
		return m.doPerKey(fp, args)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.lookup(fp, args); ok {
		return v, nil
	}

	v, err := m.compute(args)
	if err != nil {
		var zero V
		return zero, err
	}
	m.insert(fp, args, v)
	return v, nil
}

func (m *Memoizer[A, V]) doPerKey(fp uint64, args A) (V, error) {
	var zero V

	m.mu.Lock()
	v, ok := m.lookup(fp, args)
	m.mu.Unlock()
	if ok {
		return v, nil
	}

	res, err, _ := m.flight.Do(strconv.FormatUint(fp, 16), func() (any, error) {
		// a flight for this fingerprint may have completed since the lookup
		if v, ok := m.peek(fp, args); ok {
			return flightResult[A, V]{args: args, value: v}, nil
		}
		v, err := m.compute(args)
		if err != nil {
			return nil, err
		}
		m.insertLocked(fp, args, v)
		return flightResult[A, V]{args: args, value: v}, nil
	})
	if err != nil {
		return zero, err
	}

	r := res.(flightResult[A, V])
	if m.cfg.fingerprintOnly || r.args == args {
		return r.value, nil
	}

	// The flight belonged to a different argument with the same fingerprint.
	v, err = m.compute(args)
	if err != nil {
		return zero, err
	}
	m.insertLocked(fp, args, v)
	return v, nil
}

// lookup returns the stored value for args and records the hit or miss.
// Callers must hold m.mu.
func (m *Memoizer[A, V]) lookup(fp uint64, args A) (V, bool) {
	var zero V

	ent, ok := m.store.get(fp)
	if ok && m.expired(ent) {
		m.store.remove(fp, ReasonExpired)
		m.cfg.metrics.Size(m.store.len())
		ok = false
	}
	if ok && !m.matches(ent, args) {
		m.stats.collision()
		m.cfg.logger.Debug("memo: fingerprint collision", slog.Uint64("fingerprint", fp))
		ok = false
	}

	if !ok {
		m.stats.miss()
		m.cfg.metrics.Miss()
		if m.cfg.onMiss != nil {
			m.cfg.onMiss(args)
		}
		return zero, false
	}

	m.store.hit(fp, ent)
	m.stats.hit()
	m.cfg.metrics.Hit()
	if m.cfg.onHit != nil {
		m.cfg.onHit(args, ent.value)
	}
	return ent.value, true
}

// peek reports a live stored value for args without touching statistics.
func (m *Memoizer[A, V]) peek(fp uint64, args A) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.store.get(fp)
	if !ok || m.expired(ent) || !m.matches(ent, args) {
		var zero V
		return zero, false
	}
	return ent.value, true
}

func (m *Memoizer[A, V]) matches(ent *entry[A, V], args A) bool {
	return m.cfg.fingerprintOnly || ent.args == args
}

func (m *Memoizer[A, V]) expired(ent *entry[A, V]) bool {
	p := m.cfg.policy
	return p.kind == KindTimeBased && ent.isExpired(m.cfg.clock.Now(), p.ttl)
}

func (m *Memoizer[A, V]) compute(args A) (v V, err error) {
	m.stats.compute()
	start := m.cfg.clock.Now()
	returned := false

	defer func() {
		failed := !returned || err != nil
		m.cfg.metrics.Compute(m.cfg.clock.Now().Sub(start), failed)
		if !failed {
			return
		}
		m.stats.failure()
		if returned {
			m.cfg.logger.Debug("memo: computation failed", slog.Any("error", err))
		} else {
			m.cfg.logger.Debug("memo: computation panicked")
		}
	}()

	v, err = m.fn(args)
	returned = true
	return v, err
}

// insert stores a fresh result, evicting first if the store is full.
// Callers must hold m.mu.
func (m *Memoizer[A, V]) insert(fp uint64, args A, v V) {
	if m.cfg.bounded {
		if m.cfg.maxSize == 0 {
			return
		}
		if _, replacing := m.store.get(fp); !replacing && m.store.len() >= m.cfg.maxSize {
			m.store.evict()
		}
	}
	m.store.put(fp, args, v)
	m.cfg.metrics.Size(m.store.len())
}

func (m *Memoizer[A, V]) insertLocked(fp uint64, args A, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insert(fp, args, v)
}

// removed is invoked by the store for every entry that leaves it.
func (m *Memoizer[A, V]) removed(fp uint64, ent *entry[A, V], reason EvictReason) {
	if reason != ReasonForgotten {
		m.stats.evict()
	}
	m.cfg.metrics.Evict(reason)
	m.cfg.logger.Debug("memo: entry removed",
		slog.Uint64("fingerprint", fp),
		slog.String("reason", reason.String()),
		slog.Int64("hits", ent.hits),
	)
	if m.cfg.onEvict != nil {
		m.cfg.onEvict(ent.args, ent.value, reason)
	}
}

// Has reports whether a live result for args is stored.
// It does not count as a hit.
func (m *Memoizer[A, V]) Has(args A) bool {
	_, ok := m.peek(m.cfg.hasher(args), args)
	return ok
}

// Forget drops the stored result for args, if any.
func (m *Memoizer[A, V]) Forget(args A) bool {
	fp := m.cfg.hasher(args)

	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.store.get(fp)
	if !ok || !m.matches(ent, args) {
		return false
	}
	m.store.remove(fp, ReasonForgotten)
	m.cfg.metrics.Size(m.store.len())
	return true
}

// Clear drops every stored result.
func (m *Memoizer[A, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.clear()
	m.cfg.metrics.Size(0)
}

// Len returns the number of stored results. Under a TimeBased policy it
// may include expired results that have not been looked up since.
func (m *Memoizer[A, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.len()
}

// Policy returns the eviction policy the Memoizer was created with.
func (m *Memoizer[A, V]) Policy() Policy {
	return m.cfg.policy
}

// Stats returns a snapshot of memoizer statistics.
func (m *Memoizer[A, V]) Stats() Snapshot {
	return m.stats.Snapshot()
}
