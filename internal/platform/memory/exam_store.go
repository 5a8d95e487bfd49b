package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/exam"
	"github.com/phrazzld/exam-api/internal/store"
)

// ExamStore keeps exams in a map. Exam trees are immutable once built, so
// the stored *exam.Section is shared with readers.
type ExamStore struct {
	mu    sync.RWMutex
	exams map[uuid.UUID]exam.Exam
}

var _ store.ExamStore = (*ExamStore)(nil)

// NewExamStore returns an empty ExamStore.
func NewExamStore() *ExamStore {
	return &ExamStore{exams: make(map[uuid.UUID]exam.Exam)}
}

// Create implements store.ExamStore.
func (s *ExamStore) Create(_ context.Context, e *exam.Exam) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exams[e.ID]; ok {
		return store.ErrDuplicate
	}
	s.exams[e.ID] = *e
	return nil
}

// GetByID implements store.ExamStore.
func (s *ExamStore) GetByID(_ context.Context, id uuid.UUID) (*exam.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.exams[id]
	if !ok {
		return nil, store.ErrExamNotFound
	}
	return &e, nil
}
