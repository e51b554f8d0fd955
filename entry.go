package memo

import "time"

type entry[A comparable, V any] struct {
	args      A
	value     V
	hits      int64
	createdAt time.Time
	lastUsed  time.Time
}

func newEntry[A comparable, V any](args A, value V, now time.Time) *entry[A, V] {
	return &entry[A, V]{
		args:      args,
		value:     value,
		hits:      1,
		createdAt: now,
		lastUsed:  now,
	}
}

// touch records a hit. lastUsed never moves before createdAt, even if the
// clock does.
func (e *entry[A, V]) touch(now time.Time) {
	e.hits++
	if now.Before(e.createdAt) {
		now = e.createdAt
	}
	e.lastUsed = now
}

func (e *entry[A, V]) isExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.createdAt) > ttl
}

// Entry is the metadata of a stored result, as seen by a custom Evictor.
type Entry struct {
	Fingerprint uint64
	Hits        int64
	CreatedAt   time.Time
	LastUsed    time.Time
}

// Age returns how long the entry has been stored at time now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

func (e *entry[A, V]) info(fp uint64) Entry {
	return Entry{
		Fingerprint: fp,
		Hits:        e.hits,
		CreatedAt:   e.createdAt,
		LastUsed:    e.lastUsed,
	}
}
