package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/session"
)

// SessionStore defines the interface for session persistence.
type SessionStore interface {
	// Create saves a new session.
	// Returns ErrInvalidEntity if the exam does not exist.
	Create(ctx context.Context, s *session.Session) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error)

	// Update saves the position and answers of an existing session.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, s *session.Session) error

	// WithinTransaction runs fn with a SessionStore bound to a single
	// transaction. Sessions read through it stay locked until fn returns, and
	// its writes commit only if fn returns nil. Calling WithinTransaction on a
	// store that is already bound to a transaction runs fn in that transaction.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, sessions SessionStore) error) error
}
