package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/session"
	"github.com/phrazzld/exam-api/internal/platform/logger"
	"github.com/phrazzld/exam-api/internal/store"
)

// PostgresSessionStore implements store.SessionStore. Answers are stored as
// a JSONB array.
type PostgresSessionStore struct {
	db     store.DBTX
	sqlDB  *sql.DB
	inTx   bool
	logger *slog.Logger
}

var _ store.SessionStore = (*PostgresSessionStore)(nil)

// NewPostgresSessionStore creates a PostgresSessionStore on db.
// If logger is nil, the default logger is used.
func NewPostgresSessionStore(db *sql.DB, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSessionStore{
		db:     db,
		sqlDB:  db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// WithTx returns a store whose statements run in tx. Reads through it take
// row locks.
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) *PostgresSessionStore {
	return &PostgresSessionStore{
		db:     tx,
		sqlDB:  s.sqlDB,
		inTx:   true,
		logger: s.logger,
	}
}

// WithinTransaction implements store.SessionStore.WithinTransaction.
func (s *PostgresSessionStore) WithinTransaction(
	ctx context.Context,
	fn func(ctx context.Context, sessions store.SessionStore) error,
) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return store.RunInTransaction(ctx, s.sqlDB, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.WithTx(tx))
	})
}

// Create implements store.SessionStore.Create.
func (s *PostgresSessionStore) Create(ctx context.Context, sess *session.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sess.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", sess.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	answers, err := encodeAnswers(sess.Answers)
	if err != nil {
		return store.NewStoreError("session", "create", "failed to encode answers", err)
	}

	query := `
		INSERT INTO sessions (id, exam_id, candidate_id, position, answers, started_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		sess.ID, sess.ExamID, sess.CandidateID, sess.Position, answers, sess.StartedAt, sess.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("session references unknown exam",
				slog.String("session_id", sess.ID.String()),
				slog.String("exam_id", sess.ExamID.String()))
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, store.ErrExamNotFound)
		}
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", sess.ID.String()))
		return MapError(err, nil)
	}

	log.Debug("session created",
		slog.String("session_id", sess.ID.String()),
		slog.String("exam_id", sess.ExamID.String()))
	return nil
}

// GetByID implements store.SessionStore.GetByID.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, exam_id, candidate_id, position, answers, started_at, updated_at
		FROM sessions
		WHERE id = $1
	`
	if s.inTx {
		query += " FOR UPDATE"
	}

	var (
		sess    session.Session
		answers []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID,
		&sess.ExamID,
		&sess.CandidateID,
		&sess.Position,
		&answers,
		&sess.StartedAt,
		&sess.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err, store.ErrSessionNotFound)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to get session",
				slog.String("error", err.Error()),
				slog.String("session_id", id.String()))
		}
		return nil, mapped
	}

	if sess.Answers, err = decodeAnswers(answers); err != nil {
		return nil, store.NewStoreError("session", "get", "stored answers are invalid", err)
	}
	return &sess, nil
}

// Update implements store.SessionStore.Update.
func (s *PostgresSessionStore) Update(ctx context.Context, sess *session.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sess.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	answers, err := encodeAnswers(sess.Answers)
	if err != nil {
		return store.NewStoreError("session", "update", "failed to encode answers", err)
	}

	query := `
		UPDATE sessions
		SET position = $1, answers = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, sess.Position, answers, sess.UpdatedAt, sess.ID)
	if err != nil {
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", sess.ID.String()))
		return MapError(err, nil)
	}
	if err := CheckRowsAffected(result, store.ErrSessionNotFound); err != nil {
		return err
	}

	log.Debug("session updated",
		slog.String("session_id", sess.ID.String()),
		slog.Int("position", sess.Position))
	return nil
}

func encodeAnswers(answers []string) ([]byte, error) {
	if answers == nil {
		answers = []string{}
	}
	return json.Marshal(answers)
}

func decodeAnswers(data []byte) ([]string, error) {
	answers := []string{}
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
