package memo

import (
	"container/list"
	"fmt"
	"time"
)

// Kind identifies an eviction strategy.
type Kind int

const (
	// KindLRU evicts the least recently used entry.
	KindLRU Kind = iota
	// KindLFU evicts the least frequently used entry.
	KindLFU
	// KindTimeBased evicts every entry older than the policy's TTL.
	KindTimeBased
	// KindCustom delegates eviction to a caller-supplied Evictor.
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindLRU:
		return "lru"
	case KindLFU:
		return "lfu"
	case KindTimeBased:
		return "time"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Policy decides which entries are removed when a bounded Memoizer is full.
// A Policy is fixed when the Memoizer is created.
type Policy struct {
	kind   Kind
	ttl    time.Duration
	custom Evictor
}

var (
	// LRU evicts the entry that was used least recently.
	LRU = Policy{kind: KindLRU}
	// LFU evicts the entry with the fewest hits. Among equally frequent
	// entries the one touched least recently goes first.
	LFU = Policy{kind: KindLFU}
)

// TimeBased evicts all entries whose age exceeds ttl. A single pass may
// remove none, one or many entries; when none has expired the store grows
// past its maximum size by one. Expired entries are also treated as misses
// on lookup.
func TimeBased(ttl time.Duration) Policy {
	return Policy{kind: KindTimeBased, ttl: ttl}
}

// Custom hands eviction to e. The Evictor runs while the Memoizer's lock is
// held and must not call back into the Memoizer.
func Custom(e Evictor) Policy {
	return Policy{kind: KindCustom, custom: e}
}

// Kind returns the strategy of the policy.
func (p Policy) Kind() Kind { return p.kind }

// TTL returns the expiry age of a TimeBased policy and zero otherwise.
func (p Policy) TTL() time.Duration { return p.ttl }

func (p Policy) String() string {
	if p.kind == KindTimeBased {
		return fmt.Sprintf("%s(%s)", p.kind, p.ttl)
	}
	return p.kind.String()
}

// Evictor is a caller-supplied eviction strategy. Evict is called when the
// store is at capacity; it may remove any number of entries, including none.
type Evictor interface {
	Evict(s Store)
}

// EvictorFunc adapts a function to the Evictor interface.
type EvictorFunc func(s Store)

// Evict calls f(s).
func (f EvictorFunc) Evict(s Store) { f(s) }

// evictor tracks eviction order for stored fingerprints.
type evictor interface {
	onAccess(fp uint64)
	onInsert(fp uint64)
	remove(fp uint64)
	evict(s Store)
	reason() EvictReason
}

// Compile-time interface assertions.
var (
	_ evictor = (*lruEvictor)(nil)
	_ evictor = (*lfuEvictor)(nil)
	_ evictor = (*ttlEvictor)(nil)
	_ evictor = (*customEvictor)(nil)
)

// lruEvictor implements LRU eviction using a doubly-linked list.
type lruEvictor struct {
	order *list.List
	items map[uint64]*list.Element
}

func newLRUEvictor() *lruEvictor {
	return &lruEvictor{
		order: list.New(),
		items: make(map[uint64]*list.Element),
	}
}

func (e *lruEvictor) onAccess(fp uint64) {
	if elem, ok := e.items[fp]; ok {
		e.order.MoveToFront(elem)
	}
}

func (e *lruEvictor) onInsert(fp uint64) {
	if elem, ok := e.items[fp]; ok {
		e.order.MoveToFront(elem)
		return
	}
	e.items[fp] = e.order.PushFront(fp)
}

func (e *lruEvictor) evict(s Store) {
	if elem := e.order.Back(); elem != nil {
		s.Remove(elem.Value.(uint64))
	}
}

func (e *lruEvictor) remove(fp uint64) {
	if elem, ok := e.items[fp]; ok {
		e.order.Remove(elem)
		delete(e.items, fp)
	}
}

func (e *lruEvictor) reason() EvictReason { return ReasonCapacity }

// lfuEvictor implements LFU eviction using frequency buckets.
type lfuEvictor struct {
	freqs   map[int64]*list.List // freq -> list of fingerprints
	items   map[uint64]*list.Element
	keyFreq map[uint64]int64
	minFreq int64
}

func newLFUEvictor() *lfuEvictor {
	return &lfuEvictor{
		freqs:   make(map[int64]*list.List),
		items:   make(map[uint64]*list.Element),
		keyFreq: make(map[uint64]int64),
	}
}

func (e *lfuEvictor) onAccess(fp uint64) {
	freq, ok := e.keyFreq[fp]
	if !ok {
		return
	}

	e.unlink(fp, freq)
	if _, ok := e.freqs[freq]; !ok && e.minFreq == freq {
		e.minFreq++
	}
	e.link(fp, freq+1)
}

func (e *lfuEvictor) onInsert(fp uint64) {
	if _, ok := e.keyFreq[fp]; ok {
		e.onAccess(fp)
		return
	}
	e.link(fp, 1)
	e.minFreq = 1
}

func (e *lfuEvictor) evict(s Store) {
	if len(e.keyFreq) == 0 {
		return
	}
	bucket, ok := e.freqs[e.minFreq]
	if !ok {
		// remove() can empty the lowest bucket without moving minFreq.
		e.minFreq = e.lowest()
		bucket = e.freqs[e.minFreq]
	}
	s.Remove(bucket.Back().Value.(uint64))
}

func (e *lfuEvictor) remove(fp uint64) {
	freq, ok := e.keyFreq[fp]
	if !ok {
		return
	}
	e.unlink(fp, freq)
	delete(e.keyFreq, fp)
}

func (e *lfuEvictor) reason() EvictReason { return ReasonCapacity }

func (e *lfuEvictor) link(fp uint64, freq int64) {
	bucket := e.freqs[freq]
	if bucket == nil {
		bucket = list.New()
		e.freqs[freq] = bucket
	}
	e.keyFreq[fp] = freq
	e.items[fp] = bucket.PushFront(fp)
}

func (e *lfuEvictor) unlink(fp uint64, freq int64) {
	bucket := e.freqs[freq]
	bucket.Remove(e.items[fp])
	if bucket.Len() == 0 {
		delete(e.freqs, freq)
	}
	delete(e.items, fp)
}

func (e *lfuEvictor) lowest() int64 {
	lowest := int64(-1)
	for freq := range e.freqs {
		if lowest < 0 || freq < lowest {
			lowest = freq
		}
	}
	return lowest
}

// ttlEvictor drops every entry older than ttl. It keeps no ordering state.
type ttlEvictor struct {
	ttl time.Duration
}

func (e *ttlEvictor) onAccess(uint64) {}
func (e *ttlEvictor) onInsert(uint64) {}
func (e *ttlEvictor) remove(uint64)   {}

func (e *ttlEvictor) evict(s Store) {
	now := s.Now()
	var expired []uint64
	for ent := range s.Entries() {
		if ent.Age(now) > e.ttl {
			expired = append(expired, ent.Fingerprint)
		}
	}
	for _, fp := range expired {
		s.Remove(fp)
	}
}

func (e *ttlEvictor) reason() EvictReason { return ReasonExpired }

type customEvictor struct {
	impl Evictor
}

func (e *customEvictor) onAccess(uint64) {}
func (e *customEvictor) onInsert(uint64) {}
func (e *customEvictor) remove(uint64)   {}

func (e *customEvictor) evict(s Store) {
	if e.impl != nil {
		e.impl.Evict(s)
	}
}

func (e *customEvictor) reason() EvictReason { return ReasonCustom }

func newEvictor(p Policy) evictor {
	switch p.kind {
	case KindLFU:
		return newLFUEvictor()
	case KindTimeBased:
		return &ttlEvictor{ttl: p.ttl}
	case KindCustom:
		return &customEvictor{impl: p.custom}
	default:
		return newLRUEvictor()
	}
}
