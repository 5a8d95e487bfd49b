// Package timer bounds the duration of an exam attempt.
package timer

import "time"

// DefaultLimit is the time allowed for an attempt when none is configured.
const DefaultLimit = time.Hour

// Clock abstracts time.Now so callers can control time in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Timer counts down from a fixed limit starting at a given instant. It is
// an ordinary value: create one per attempt and pass it to whatever needs it.
type Timer struct {
	start time.Time
	limit time.Duration
	clock Clock
}

// New starts a timer now. A non-positive limit selects DefaultLimit and a
// nil clock selects SystemClock.
func New(limit time.Duration, clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	return StartedAt(clock.Now(), limit, clock)
}

// StartedAt returns a timer that began at start, for attempts resumed from storage.
func StartedAt(start time.Time, limit time.Duration, clock Clock) *Timer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Timer{start: start, limit: limit, clock: clock}
}

// Limit returns the total time allowed.
func (t *Timer) Limit() time.Duration { return t.limit }

// Deadline returns the instant the timer expires.
func (t *Timer) Deadline() time.Time { return t.start.Add(t.limit) }

// Remaining returns the time left, never negative.
func (t *Timer) Remaining() time.Duration {
	left := t.Deadline().Sub(t.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}

// RemainingSeconds returns Remaining truncated to whole seconds.
func (t *Timer) RemainingSeconds() int {
	return int(t.Remaining() / time.Second)
}

// Expired reports whether the deadline has passed.
func (t *Timer) Expired() bool {
	return !t.clock.Now().Before(t.Deadline())
}
