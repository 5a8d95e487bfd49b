// Package session records a candidate's answers to an exam and lets the
// attempt be checkpointed and rolled back.
package session

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// NoAnswer is returned by Session.Answer for positions without an answer.
const NoAnswer = "(no answer)"

// Session validation errors.
var (
	ErrSessionIDEmpty       = errors.New("session ID cannot be empty")
	ErrSessionExamIDEmpty   = errors.New("session exam ID cannot be empty")
	ErrSessionCandidateID   = errors.New("session candidate ID cannot be empty")
	ErrSessionPosition      = errors.New("session position out of range")
	ErrCheckpointForeign    = errors.New("checkpoint belongs to another session")
	ErrCheckpointIDEmpty    = errors.New("checkpoint ID cannot be empty")
	ErrCheckpointSessionID  = errors.New("checkpoint session ID cannot be empty")
	ErrCheckpointInvalidPos = errors.New("checkpoint position out of range")
)

// Session is one candidate's attempt at an exam. Answers are indexed by
// question position; Position is the index the next answer is written to.
//
// A Session is not safe for concurrent use.
type Session struct {
	ID          uuid.UUID `json:"id"`
	ExamID      uuid.UUID `json:"exam_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Position    int       `json:"position"`
	Answers     []string  `json:"answers"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// New starts an empty session for candidateID on examID.
func New(examID, candidateID uuid.UUID) (*Session, error) {
	now := time.Now().UTC()
	s := &Session{
		ID:          uuid.New(),
		ExamID:      examID,
		CandidateID: candidateID,
		Answers:     []string{},
		StartedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the Session has valid data.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}
	if s.ExamID == uuid.Nil {
		return ErrSessionExamIDEmpty
	}
	if s.CandidateID == uuid.Nil {
		return ErrSessionCandidateID
	}
	if s.Position < 0 || s.Position > len(s.Answers) {
		return ErrSessionPosition
	}
	return nil
}

// AnswerQuestion records answer at the current position, overwriting an
// earlier answer there if one exists, and advances the position by one.
// The session does not know how many questions the exam has.
func (s *Session) AnswerQuestion(answer string) {
	if s.Position < len(s.Answers) {
		s.Answers[s.Position] = answer
	} else {
		s.Answers = append(s.Answers, answer)
	}
	s.Position++
	s.UpdatedAt = time.Now().UTC()
}

// Answer returns the answer recorded at index, or NoAnswer.
func (s *Session) Answer(index int) string {
	if index >= 0 && index < len(s.Answers) {
		return s.Answers[index]
	}
	return NoAnswer
}

// Save captures the current position and a copy of the answers.
func (s *Session) Save() Checkpoint {
	return Checkpoint{
		id:        uuid.New(),
		sessionID: s.ID,
		position:  s.Position,
		answers:   slices.Clone(s.Answers),
		createdAt: time.Now().UTC(),
	}
}

// Restore replaces the session state with the checkpoint's. Progress made
// after the checkpoint was taken is discarded.
func (s *Session) Restore(cp Checkpoint) error {
	if cp.sessionID != uuid.Nil && s.ID != uuid.Nil && cp.sessionID != s.ID {
		return ErrCheckpointForeign
	}
	s.Position = cp.position
	s.Answers = cp.Answers()
	s.UpdatedAt = time.Now().UTC()
	return nil
}
