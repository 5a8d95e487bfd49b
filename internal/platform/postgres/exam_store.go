package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/exam"
	"github.com/phrazzld/exam-api/internal/examfile"
	"github.com/phrazzld/exam-api/internal/platform/logger"
	"github.com/phrazzld/exam-api/internal/store"
)

// PostgresExamStore implements store.ExamStore. The exam tree is stored as
// its canonical JSON definition and rebuilt on read.
type PostgresExamStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.ExamStore = (*PostgresExamStore)(nil)

// NewPostgresExamStore creates a PostgresExamStore on db.
// If logger is nil, the default logger is used.
func NewPostgresExamStore(db store.DBTX, logger *slog.Logger) *PostgresExamStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExamStore{
		db:     db,
		logger: logger.With(slog.String("component", "exam_store")),
	}
}

// Create implements store.ExamStore.Create.
func (s *PostgresExamStore) Create(ctx context.Context, e *exam.Exam) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := e.Validate(); err != nil {
		log.Warn("exam validation failed during create",
			slog.String("error", err.Error()),
			slog.String("exam_id", e.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	definition, err := json.Marshal(examfile.FromSection(e.Root))
	if err != nil {
		return store.NewStoreError("exam", "create", "failed to encode definition", err)
	}

	query := `
		INSERT INTO exams (id, title, definition, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.db.ExecContext(ctx, query, e.ID, e.Title(), definition, e.CreatedAt); err != nil {
		log.Error("failed to create exam",
			slog.String("error", err.Error()),
			slog.String("exam_id", e.ID.String()))
		return MapError(err, nil)
	}

	log.Info("exam created",
		slog.String("exam_id", e.ID.String()),
		slog.Int("question_count", e.QuestionCount()))
	return nil
}

// GetByID implements store.ExamStore.GetByID.
func (s *PostgresExamStore) GetByID(ctx context.Context, id uuid.UUID) (*exam.Exam, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, definition, created_at
		FROM exams
		WHERE id = $1
	`
	var (
		e          exam.Exam
		definition []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &definition, &e.CreatedAt)
	if err != nil {
		mapped := MapError(err, store.ErrExamNotFound)
		if store.IsNotFoundError(mapped) {
			log.Debug("exam not found", slog.String("exam_id", id.String()))
		} else {
			log.Error("failed to get exam",
				slog.String("error", err.Error()),
				slog.String("exam_id", id.String()))
		}
		return nil, mapped
	}

	def, err := examfile.ParseJSON(definition)
	if err != nil {
		return nil, store.NewStoreError("exam", "get", "stored definition is invalid", err)
	}
	if e.Root, err = def.Build(); err != nil {
		return nil, store.NewStoreError("exam", "get", "stored definition does not build", err)
	}
	return &e, nil
}
