package api

import (
	"time"

	"github.com/phrazzld/exam-api/internal/domain/exam"
	"github.com/phrazzld/exam-api/internal/domain/session"
	"github.com/phrazzld/exam-api/internal/examfile"
	"github.com/phrazzld/exam-api/internal/service"
)

// ExamResponse is the representation of a stored exam.
type ExamResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	QuestionCount int                  `json:"question_count"`
	Definition    *examfile.Definition `json:"definition"`
	CreatedAt     time.Time            `json:"created_at"`
}

// RenderResponse carries the display form of an exam for JSON clients.
type RenderResponse struct {
	ID       string `json:"id"`
	Rendered string `json:"rendered"`
}

// StartSessionRequest defines the payload for POST /api/sessions.
type StartSessionRequest struct {
	ExamID string `json:"exam_id" validate:"required,uuid"`
}

// AnswerRequest defines the payload for POST /api/sessions/{id}/answers.
// An empty answer is allowed; a missing one is not.
type AnswerRequest struct {
	Answer *string `json:"answer" validate:"required"`
}

// RestoreRequest defines the payload for POST /api/sessions/{id}/restore.
type RestoreRequest struct {
	CheckpointID string `json:"checkpoint_id" validate:"required,uuid"`
}

// SessionResponse is a session together with its time budget.
type SessionResponse struct {
	ID               string    `json:"id"`
	ExamID           string    `json:"exam_id"`
	CandidateID      string    `json:"candidate_id"`
	Position         int       `json:"position"`
	Answers          []string  `json:"answers"`
	StartedAt        time.Time `json:"started_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Deadline         time.Time `json:"deadline"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Expired          bool      `json:"expired"`
}

// CheckpointResponse is a saved snapshot of a session.
type CheckpointResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Position  int       `json:"position"`
	Answers   []string  `json:"answers"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionResultResponse is the grading outcome for one question.
type QuestionResultResponse struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Answered bool   `json:"answered"`
	Correct  bool   `json:"correct"`
}

// GradeResponse is a scored session.
type GradeResponse struct {
	SessionID string                   `json:"session_id"`
	ExamID    string                   `json:"exam_id"`
	Score     int                      `json:"score"`
	Total     int                      `json:"total"`
	Results   []QuestionResultResponse `json:"results"`
}

func examToResponse(e *exam.Exam) ExamResponse {
	return ExamResponse{
		ID:            e.ID.String(),
		Title:         e.Title(),
		QuestionCount: e.QuestionCount(),
		Definition:    examfile.FromSection(e.Root),
		CreatedAt:     e.CreatedAt,
	}
}

func sessionStatusToResponse(st *service.SessionStatus) SessionResponse {
	sess := st.Session
	answers := sess.Answers
	if answers == nil {
		answers = []string{}
	}
	return SessionResponse{
		ID:               sess.ID.String(),
		ExamID:           sess.ExamID.String(),
		CandidateID:      sess.CandidateID.String(),
		Position:         sess.Position,
		Answers:          answers,
		StartedAt:        sess.StartedAt,
		UpdatedAt:        sess.UpdatedAt,
		Deadline:         st.Deadline,
		RemainingSeconds: int(st.Remaining / time.Second),
		Expired:          st.Expired,
	}
}

func checkpointToResponse(cp session.Checkpoint) CheckpointResponse {
	return CheckpointResponse{
		ID:        cp.ID().String(),
		SessionID: cp.SessionID().String(),
		Position:  cp.Position(),
		Answers:   cp.Answers(),
		CreatedAt: cp.CreatedAt(),
	}
}

func gradeReportToResponse(report *service.GradeReport) GradeResponse {
	results := make([]QuestionResultResponse, 0, len(report.Results))
	for _, r := range report.Results {
		results = append(results, QuestionResultResponse{
			Index:    r.Index,
			Question: r.Question,
			Answer:   r.Answer,
			Answered: r.Answered,
			Correct:  r.Correct,
		})
	}
	return GradeResponse{
		SessionID: report.SessionID.String(),
		ExamID:    report.ExamID.String(),
		Score:     report.Score,
		Total:     report.Total,
		Results:   results,
	}
}
