package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestTimerCountsDown(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)}
	tm := New(0, clock)

	assert.Equal(t, DefaultLimit, tm.Limit())
	assert.Equal(t, 3600, tm.RemainingSeconds())
	assert.False(t, tm.Expired())

	clock.advance(90 * time.Second)
	assert.Equal(t, 3510, tm.RemainingSeconds())

	clock.advance(time.Hour)
	assert.Equal(t, time.Duration(0), tm.Remaining())
	assert.True(t, tm.Expired())
}

func TestTimerStartedAt(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start.Add(10 * time.Minute)}
	tm := StartedAt(start, 15*time.Minute, clock)

	assert.Equal(t, start.Add(15*time.Minute), tm.Deadline())
	assert.Equal(t, 5*time.Minute, tm.Remaining())

	clock.advance(5 * time.Minute)
	assert.True(t, tm.Expired(), "the deadline instant itself counts as expired")
}

func TestSystemClock(t *testing.T) {
	t.Parallel()

	tm := New(time.Minute, nil)
	assert.False(t, tm.Expired())
	assert.LessOrEqual(t, tm.Remaining(), time.Minute)
}
