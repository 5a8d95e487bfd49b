package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain"
	"github.com/phrazzld/exam-api/internal/domain/exam"
	"github.com/phrazzld/exam-api/internal/examfile"
	"github.com/phrazzld/exam-api/internal/platform/logger"
	"github.com/phrazzld/exam-api/internal/store"
)

// ExamService creates and reads exams.
type ExamService interface {
	// CreateExam builds the tree described by def and stores it.
	CreateExam(ctx context.Context, def *examfile.Definition) (*exam.Exam, error)

	// GetExam retrieves an exam by its ID.
	GetExam(ctx context.Context, id uuid.UUID) (*exam.Exam, error)

	// RenderExam returns the indented text rendering of an exam's tree.
	RenderExam(ctx context.Context, id uuid.UUID) (string, error)
}

type examServiceImpl struct {
	exams  store.ExamStore
	logger *slog.Logger
}

// NewExamService creates an ExamService.
// It returns an error if exams is nil.
func NewExamService(exams store.ExamStore, logger *slog.Logger) (ExamService, error) {
	if exams == nil {
		return nil, domain.NewValidationError("exams", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &examServiceImpl{
		exams:  exams,
		logger: logger.With(slog.String("component", "exam_service")),
	}, nil
}

// CreateExam implements ExamService.CreateExam.
func (s *examServiceImpl) CreateExam(ctx context.Context, def *examfile.Definition) (*exam.Exam, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	root, err := def.Build()
	if err != nil {
		log.Debug("exam definition rejected", slog.String("error", err.Error()))
		return nil, wrapError("exam", "create", err)
	}
	e, err := exam.NewExam(root)
	if err != nil {
		return nil, wrapError("exam", "create", err)
	}
	if err := s.exams.Create(ctx, e); err != nil {
		log.Error("failed to store exam",
			slog.String("error", err.Error()),
			slog.String("exam_id", e.ID.String()))
		return nil, wrapError("exam", "create", err)
	}

	log.Info("exam created",
		slog.String("exam_id", e.ID.String()),
		slog.String("title", e.Title()),
		slog.Int("question_count", e.QuestionCount()))
	return e, nil
}

// GetExam implements ExamService.GetExam.
func (s *examServiceImpl) GetExam(ctx context.Context, id uuid.UUID) (*exam.Exam, error) {
	e, err := s.exams.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("exam", "get", err)
	}
	return e, nil
}

// RenderExam implements ExamService.RenderExam.
func (s *examServiceImpl) RenderExam(ctx context.Context, id uuid.UUID) (string, error) {
	e, err := s.GetExam(ctx, id)
	if err != nil {
		return "", err
	}
	out, err := exam.Render(e.Root)
	if err != nil {
		return "", wrapError("exam", "render", err)
	}
	return out, nil
}
