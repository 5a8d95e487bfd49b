package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/exam"
)

// ExamStore defines the interface for exam persistence. Exams are written
// once and read many times.
type ExamStore interface {
	// Create saves a new exam.
	// Returns validation errors from the domain Exam if data is invalid,
	// and ErrDuplicate if an exam with the same ID exists.
	Create(ctx context.Context, e *exam.Exam) error

	// GetByID retrieves an exam by its unique ID.
	// Returns ErrExamNotFound if the exam does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*exam.Exam, error)
}
