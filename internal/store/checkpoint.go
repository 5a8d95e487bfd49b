package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/session"
)

// CheckpointStore defines the interface for checkpoint persistence.
// Checkpoints are immutable once stored.
type CheckpointStore interface {
	// Create saves a checkpoint.
	Create(ctx context.Context, cp session.Checkpoint) error

	// GetByID retrieves a checkpoint by its unique ID.
	// Returns ErrCheckpointNotFound if it does not exist or has expired.
	GetByID(ctx context.Context, id uuid.UUID) (session.Checkpoint, error)

	// ListBySession returns the checkpoints of a session, oldest first.
	// Returns an empty slice if there are none.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]session.Checkpoint, error)
}
