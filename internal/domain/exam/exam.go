package exam

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Exam validation errors.
var (
	ErrExamIDEmpty   = errors.New("exam ID cannot be empty")
	ErrExamRootEmpty = errors.New("exam root section cannot be empty")
)

// Exam is a stored exam tree.
type Exam struct {
	ID        uuid.UUID
	Root      *Section
	CreatedAt time.Time
}

// NewExam wraps root in a new Exam with a fresh ID.
func NewExam(root *Section) (*Exam, error) {
	e := &Exam{
		ID:        uuid.New(),
		Root:      root,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks if the Exam has valid data.
func (e *Exam) Validate() error {
	if e.ID == uuid.Nil {
		return ErrExamIDEmpty
	}
	if e.Root == nil {
		return ErrExamRootEmpty
	}
	return nil
}

// Title returns the root section's title.
func (e *Exam) Title() string {
	if e.Root == nil {
		return ""
	}
	return e.Root.Title()
}

// QuestionCount returns the number of questions in the tree.
func (e *Exam) QuestionCount() int {
	if e.Root == nil {
		return 0
	}
	return len(e.Root.Questions())
}
