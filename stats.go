package memo

import "sync/atomic"

// Stats holds memoizer statistics using atomic counters for lock-free updates.
type Stats struct {
	hits       atomic.Int64
	misses     atomic.Int64
	evictions  atomic.Int64
	computes   atomic.Int64
	failures   atomic.Int64
	collisions atomic.Int64
}

func (s *Stats) hit()       { s.hits.Add(1) }
func (s *Stats) miss()      { s.misses.Add(1) }
func (s *Stats) evict()     { s.evictions.Add(1) }
func (s *Stats) compute()   { s.computes.Add(1) }
func (s *Stats) failure()   { s.failures.Add(1) }
func (s *Stats) collision() { s.collisions.Add(1) }

// Snapshot is a point-in-time copy of memoizer statistics.
type Snapshot struct {
	Hits      int64
	Misses    int64
	Evictions int64
	// Computes counts invocations of the wrapped function, successful or not.
	Computes int64
	// Failures counts computations that returned an error or panicked.
	Failures int64
	// Collisions counts lookups whose fingerprint matched a different argument.
	Collisions int64
}

// HitRate returns the hit rate as a value between 0 and 1.
// Returns 0 if there have been no lookups.
func (s Snapshot) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Snapshot returns a point-in-time copy of the stats.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Hits:       s.hits.Load(),
		Misses:     s.misses.Load(),
		Evictions:  s.evictions.Load(),
		Computes:   s.computes.Load(),
		Failures:   s.failures.Load(),
		Collisions: s.collisions.Load(),
	}
}
