package memo

import "time"

// Clock provides the time source for entry timestamps and TTL checks.
// The default implementation uses time.Now().
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
