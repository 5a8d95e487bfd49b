package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/exam"
	"github.com/phrazzld/exam-api/internal/domain/session"
	"github.com/phrazzld/exam-api/internal/examfile"
	"github.com/phrazzld/exam-api/internal/service"
)

// MockExamService is a mock implementation of service.ExamService for testing
type MockExamService struct {
	CreateExamFn func(ctx context.Context, def *examfile.Definition) (*exam.Exam, error)
	GetExamFn    func(ctx context.Context, id uuid.UUID) (*exam.Exam, error)
	RenderExamFn func(ctx context.Context, id uuid.UUID) (string, error)
}

var _ service.ExamService = (*MockExamService)(nil)

// CreateExam implements service.ExamService
func (m *MockExamService) CreateExam(ctx context.Context, def *examfile.Definition) (*exam.Exam, error) {
	if m.CreateExamFn != nil {
		return m.CreateExamFn(ctx, def)
	}
	return nil, nil
}

// GetExam implements service.ExamService
func (m *MockExamService) GetExam(ctx context.Context, id uuid.UUID) (*exam.Exam, error) {
	if m.GetExamFn != nil {
		return m.GetExamFn(ctx, id)
	}
	return nil, nil
}

// RenderExam implements service.ExamService
func (m *MockExamService) RenderExam(ctx context.Context, id uuid.UUID) (string, error) {
	if m.RenderExamFn != nil {
		return m.RenderExamFn(ctx, id)
	}
	return "", nil
}

// MockSessionService is a mock implementation of service.SessionService for testing
type MockSessionService struct {
	StartFn           func(ctx context.Context, candidateID, examID uuid.UUID) (*service.SessionStatus, error)
	GetSessionFn      func(ctx context.Context, candidateID, sessionID uuid.UUID) (*service.SessionStatus, error)
	AnswerFn          func(ctx context.Context, candidateID, sessionID uuid.UUID, answer string) (*service.SessionStatus, error)
	SaveCheckpointFn  func(ctx context.Context, candidateID, sessionID uuid.UUID) (session.Checkpoint, error)
	ListCheckpointsFn func(ctx context.Context, candidateID, sessionID uuid.UUID) ([]session.Checkpoint, error)
	RestoreFn         func(ctx context.Context, candidateID, sessionID, checkpointID uuid.UUID) (*service.SessionStatus, error)
	GradeFn           func(ctx context.Context, candidateID, sessionID uuid.UUID) (*service.GradeReport, error)
}

var _ service.SessionService = (*MockSessionService)(nil)

// Start implements service.SessionService
func (m *MockSessionService) Start(ctx context.Context, candidateID, examID uuid.UUID) (*service.SessionStatus, error) {
	if m.StartFn != nil {
		return m.StartFn(ctx, candidateID, examID)
	}
	return nil, nil
}

// GetSession implements service.SessionService
func (m *MockSessionService) GetSession(
	ctx context.Context,
	candidateID, sessionID uuid.UUID,
) (*service.SessionStatus, error) {
	if m.GetSessionFn != nil {
		return m.GetSessionFn(ctx, candidateID, sessionID)
	}
	return nil, nil
}

// Answer implements service.SessionService
func (m *MockSessionService) Answer(
	ctx context.Context,
	candidateID, sessionID uuid.UUID,
	answer string,
) (*service.SessionStatus, error) {
	if m.AnswerFn != nil {
		return m.AnswerFn(ctx, candidateID, sessionID, answer)
	}
	return nil, nil
}

// SaveCheckpoint implements service.SessionService
func (m *MockSessionService) SaveCheckpoint(
	ctx context.Context,
	candidateID, sessionID uuid.UUID,
) (session.Checkpoint, error) {
	if m.SaveCheckpointFn != nil {
		return m.SaveCheckpointFn(ctx, candidateID, sessionID)
	}
	return session.Checkpoint{}, nil
}

// ListCheckpoints implements service.SessionService
func (m *MockSessionService) ListCheckpoints(
	ctx context.Context,
	candidateID, sessionID uuid.UUID,
) ([]session.Checkpoint, error) {
	if m.ListCheckpointsFn != nil {
		return m.ListCheckpointsFn(ctx, candidateID, sessionID)
	}
	return nil, nil
}

// Restore implements service.SessionService
func (m *MockSessionService) Restore(
	ctx context.Context,
	candidateID, sessionID, checkpointID uuid.UUID,
) (*service.SessionStatus, error) {
	if m.RestoreFn != nil {
		return m.RestoreFn(ctx, candidateID, sessionID, checkpointID)
	}
	return nil, nil
}

// Grade implements service.SessionService
func (m *MockSessionService) Grade(
	ctx context.Context,
	candidateID, sessionID uuid.UUID,
) (*service.GradeReport, error) {
	if m.GradeFn != nil {
		return m.GradeFn(ctx, candidateID, sessionID)
	}
	return nil, nil
}
