package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/session"
	"github.com/phrazzld/exam-api/internal/store"
)

// CheckpointStore keeps checkpoints in a map plus a per-session index in
// insertion order. Checkpoints are immutable values, so no copying is needed.
type CheckpointStore struct {
	mu          sync.RWMutex
	checkpoints map[uuid.UUID]session.Checkpoint
	bySession   map[uuid.UUID][]uuid.UUID
}

var _ store.CheckpointStore = (*CheckpointStore)(nil)

// NewCheckpointStore returns an empty CheckpointStore.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{
		checkpoints: make(map[uuid.UUID]session.Checkpoint),
		bySession:   make(map[uuid.UUID][]uuid.UUID),
	}
}

// Create implements store.CheckpointStore.
func (s *CheckpointStore) Create(_ context.Context, cp session.Checkpoint) error {
	if err := cp.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checkpoints[cp.ID()]; ok {
		return store.ErrDuplicate
	}
	s.checkpoints[cp.ID()] = cp
	s.bySession[cp.SessionID()] = append(s.bySession[cp.SessionID()], cp.ID())
	return nil
}

// GetByID implements store.CheckpointStore.
func (s *CheckpointStore) GetByID(_ context.Context, id uuid.UUID) (session.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp, ok := s.checkpoints[id]
	if !ok {
		return session.Checkpoint{}, store.ErrCheckpointNotFound
	}
	return cp, nil
}

// ListBySession implements store.CheckpointStore.
func (s *CheckpointStore) ListBySession(_ context.Context, sessionID uuid.UUID) ([]session.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.bySession[sessionID]
	out := make([]session.Checkpoint, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.checkpoints[id])
	}
	return out, nil
}
