package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/session"
	"github.com/phrazzld/exam-api/internal/store"
)

// SessionStore keeps sessions in a map. Writes replace the stored copy, so
// a failed transaction body leaves earlier writes in place.
type SessionStore struct {
	txMu     sync.Mutex
	mu       sync.RWMutex
	sessions map[uuid.UUID]session.Session
	exams    store.ExamStore
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore returns an empty SessionStore. When exams is non-nil,
// Create rejects sessions for unknown exams the way a foreign key would.
func NewSessionStore(exams store.ExamStore) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]session.Session),
		exams:    exams,
	}
}

// Create implements store.SessionStore.
func (s *SessionStore) Create(ctx context.Context, sess *session.Session) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if s.exams != nil {
		if _, err := s.exams.GetByID(ctx, sess.ExamID); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return store.ErrDuplicate
	}
	s.sessions[sess.ID] = copySession(sess)
	return nil
}

// GetByID implements store.SessionStore.
func (s *SessionStore) GetByID(_ context.Context, id uuid.UUID) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	out := copySession(&sess)
	return &out, nil
}

// Update implements store.SessionStore.
func (s *SessionStore) Update(_ context.Context, sess *session.Session) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; !ok {
		return store.ErrSessionNotFound
	}
	s.sessions[sess.ID] = copySession(sess)
	return nil
}

func copySession(sess *session.Session) session.Session {
	out := *sess
	out.Answers = slices.Clone(sess.Answers)
	if out.Answers == nil {
		out.Answers = []string{}
	}
	return out
}

// WithinTransaction implements store.SessionStore. Transactions are
// serialized against each other. fn receives a view of the store whose own
// WithinTransaction joins the running transaction.
func (s *SessionStore) WithinTransaction(
	ctx context.Context,
	fn func(ctx context.Context, sessions store.SessionStore) error,
) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx, txSessionStore{s})
}

// txSessionStore is the store as seen from inside a transaction.
type txSessionStore struct {
	*SessionStore
}

// WithinTransaction runs fn in the transaction already held.
func (t txSessionStore) WithinTransaction(
	ctx context.Context,
	fn func(ctx context.Context, sessions store.SessionStore) error,
) error {
	return fn(ctx, t)
}
