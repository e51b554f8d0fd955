package memo

import (
	"iter"
	"time"
)

// Store is the view of a Memoizer's entries handed to a custom Evictor.
// It is only valid for the duration of the Evict call.
type Store interface {
	// Len returns the number of stored entries.
	Len() int

	// Now returns the current time of the Memoizer's clock.
	Now() time.Time

	// Entries yields the metadata of every stored entry in no particular
	// order. Removing entries while iterating is allowed.
	Entries() iter.Seq[Entry]

	// Remove drops the entry with the given fingerprint.
	// Returns false if no such entry exists.
	Remove(fingerprint uint64) bool
}

// EvictReason describes why an entry left the store.
type EvictReason int

const (
	// ReasonCapacity means the entry was evicted by LRU or LFU to make room.
	ReasonCapacity EvictReason = iota
	// ReasonExpired means the entry outlived the TimeBased TTL.
	ReasonExpired
	// ReasonCustom means a custom Evictor removed the entry.
	ReasonCustom
	// ReasonReplaced means another argument with the same fingerprint took
	// the slot.
	ReasonReplaced
	// ReasonForgotten means the entry was dropped by Forget or Clear.
	ReasonForgotten
)

func (r EvictReason) String() string {
	switch r {
	case ReasonCapacity:
		return "capacity"
	case ReasonExpired:
		return "expired"
	case ReasonCustom:
		return "custom"
	case ReasonReplaced:
		return "replaced"
	case ReasonForgotten:
		return "forgotten"
	default:
		return "unknown"
	}
}

// store maps fingerprints to entries. It is not safe for concurrent use;
// the owning Memoizer serializes access.
type store[A comparable, V any] struct {
	data     map[uint64]*entry[A, V]
	evictor  evictor
	clock    Clock
	onRemove func(fp uint64, ent *entry[A, V], reason EvictReason)
}

func newStore[A comparable, V any](p Policy, clk Clock) *store[A, V] {
	return &store[A, V]{
		data:    make(map[uint64]*entry[A, V]),
		evictor: newEvictor(p),
		clock:   clk,
	}
}

func (s *store[A, V]) len() int {
	return len(s.data)
}

func (s *store[A, V]) get(fp uint64) (*entry[A, V], bool) {
	ent, ok := s.data[fp]
	return ent, ok
}

func (s *store[A, V]) hit(fp uint64, ent *entry[A, V]) {
	ent.touch(s.clock.Now())
	s.evictor.onAccess(fp)
}

func (s *store[A, V]) put(fp uint64, args A, value V) {
	if _, ok := s.data[fp]; ok {
		s.remove(fp, ReasonReplaced)
	}
	s.data[fp] = newEntry(args, value, s.clock.Now())
	s.evictor.onInsert(fp)
}

func (s *store[A, V]) remove(fp uint64, reason EvictReason) bool {
	ent, ok := s.data[fp]
	if !ok {
		return false
	}
	delete(s.data, fp)
	s.evictor.remove(fp)
	if s.onRemove != nil {
		s.onRemove(fp, ent, reason)
	}
	return true
}

// evict runs the policy once against the store.
func (s *store[A, V]) evict() {
	if len(s.data) == 0 {
		return
	}
	s.evictor.evict(storeView[A, V]{s: s, reason: s.evictor.reason()})
}

func (s *store[A, V]) clear() {
	for fp := range s.data {
		s.remove(fp, ReasonForgotten)
	}
}

// storeView exposes a store through the Store interface, tagging removals
// with the reason of the policy that performs them.
type storeView[A comparable, V any] struct {
	s      *store[A, V]
	reason EvictReason
}

var _ Store = storeView[string, int]{}

func (v storeView[A, V]) Len() int { return v.s.len() }

func (v storeView[A, V]) Now() time.Time { return v.s.clock.Now() }

func (v storeView[A, V]) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for fp, ent := range v.s.data {
			if !yield(ent.info(fp)) {
				return
			}
		}
	}
}

func (v storeView[A, V]) Remove(fingerprint uint64) bool {
	return v.s.remove(fingerprint, v.reason)
}
