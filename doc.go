// Package memo provides a generic memoizing cache for pure functions, with
// bounded storage and pluggable eviction policies.
//
// # Overview
//
// A Memoizer wraps a function and remembers its results keyed by the
// argument's fingerprint. Repeated calls with an equal argument return the
// stored result without calling the function again. Results are returned by
// value; the Memoizer is their only long-term owner.
//
// # Basic Usage
//
//	square := memo.New(func(x int) int {
//		return x * x
//	}, memo.WithMaxSize[int, int](3))
//
//	square.Call(4) // computes
//	square.Call(4) // stored
//
// Functions that can fail use NewFallible and Do. Failures are never stored:
//
//	users := memo.NewFallible(db.GetUser)
//	user, err := users.Do("user:123")
//
// # Eviction Policies
//
// A bounded Memoizer (WithMaxSize) evicts before inserting once it is full:
//
//	// LRU - Least Recently Used (default)
//	memo.WithPolicy[int, int](memo.LRU)
//
//	// LFU - Least Frequently Used
//	memo.WithPolicy[int, int](memo.LFU)
//
//	// Time-based expiry: drop everything older than the TTL
//	memo.WithPolicy[int, int](memo.TimeBased(time.Minute))
//
//	// Custom: any Evictor, given the store to prune
//	memo.WithPolicy[int, int](memo.Custom(memo.EvictorFunc(func(s memo.Store) {
//		for e := range s.Entries() {
//			if e.Hits < 2 {
//				s.Remove(e.Fingerprint)
//			}
//		}
//	})))
//
// TimeBased and Custom policies may free nothing, in which case the store
// grows past its maximum size by one entry.
//
// # Fingerprints
//
// Arguments are reduced to a uint64 fingerprint by a Hasher. Strings and
// integers are hashed with xxhash, other comparable values with
// hash/maphash. By default the stored argument is compared on lookup so a
// fingerprint collision is a miss; WithFingerprintOnly trusts the
// fingerprint alone.
//
// # Concurrency
//
// All Memoizer methods are safe for concurrent use. In the default Global
// mode one sync.Mutex is held for the whole lookup, computation and
// insertion: at most one computation runs at a time per Memoizer, and a slow
// function blocks every other caller. PerKey mode computes outside the lock
// and deduplicates concurrent computations for the same argument only.
//
// Custom evictors and the OnHit, OnMiss and OnEvict hooks run under the
// lock and must not call back into the Memoizer.
//
// # Observability
//
// Stats returns counters for hits, misses, evictions and computations.
// WithMetrics plugs in a Metrics sink (see adapters/prometheus and
// adapters/otel) and WithLogger a *slog.Logger for debug records.
package memo
