package service

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/exam-api/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockEventEmitter mocks events.EventEmitter.
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.SessionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// fakeClock is a settable timer.Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
