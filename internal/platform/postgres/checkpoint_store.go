package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/session"
	"github.com/phrazzld/exam-api/internal/platform/logger"
	"github.com/phrazzld/exam-api/internal/store"
)

// PostgresCheckpointStore implements store.CheckpointStore.
type PostgresCheckpointStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.CheckpointStore = (*PostgresCheckpointStore)(nil)

// NewPostgresCheckpointStore creates a PostgresCheckpointStore on db.
// If logger is nil, the default logger is used.
func NewPostgresCheckpointStore(db store.DBTX, logger *slog.Logger) *PostgresCheckpointStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCheckpointStore{
		db:     db,
		logger: logger.With(slog.String("component", "checkpoint_store")),
	}
}

// Create implements store.CheckpointStore.Create.
func (s *PostgresCheckpointStore) Create(ctx context.Context, cp session.Checkpoint) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := cp.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	answers, err := encodeAnswers(cp.Answers())
	if err != nil {
		return store.NewStoreError("checkpoint", "create", "failed to encode answers", err)
	}

	query := `
		INSERT INTO checkpoints (id, session_id, position, answers, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = s.db.ExecContext(ctx, query, cp.ID(), cp.SessionID(), cp.Position(), answers, cp.CreatedAt())
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, store.ErrSessionNotFound)
		}
		log.Error("failed to create checkpoint",
			slog.String("error", err.Error()),
			slog.String("checkpoint_id", cp.ID().String()))
		return MapError(err, nil)
	}

	log.Debug("checkpoint created",
		slog.String("checkpoint_id", cp.ID().String()),
		slog.String("session_id", cp.SessionID().String()))
	return nil
}

// GetByID implements store.CheckpointStore.GetByID.
func (s *PostgresCheckpointStore) GetByID(ctx context.Context, id uuid.UUID) (session.Checkpoint, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, session_id, position, answers, created_at
		FROM checkpoints
		WHERE id = $1
	`
	var (
		cpID, sessionID uuid.UUID
		position        int
		answers         []byte
		createdAt       time.Time
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&cpID, &sessionID, &position, &answers, &createdAt)
	if err != nil {
		mapped := MapError(err, store.ErrCheckpointNotFound)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to get checkpoint",
				slog.String("error", err.Error()),
				slog.String("checkpoint_id", id.String()))
		}
		return session.Checkpoint{}, mapped
	}
	return buildCheckpoint(cpID, sessionID, position, answers, createdAt)
}

// ListBySession implements store.CheckpointStore.ListBySession.
func (s *PostgresCheckpointStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]session.Checkpoint, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, session_id, position, answers, created_at
		FROM checkpoints
		WHERE session_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		log.Error("failed to list checkpoints",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	checkpoints := []session.Checkpoint{}
	for rows.Next() {
		var (
			cpID, sid uuid.UUID
			position  int
			answers   []byte
			createdAt time.Time
		)
		if err := rows.Scan(&cpID, &sid, &position, &answers, &createdAt); err != nil {
			return nil, MapError(err, nil)
		}
		cp, err := buildCheckpoint(cpID, sid, position, answers, createdAt)
		if err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, nil)
	}
	return checkpoints, nil
}

func buildCheckpoint(
	id, sessionID uuid.UUID,
	position int,
	answersJSON []byte,
	createdAt time.Time,
) (session.Checkpoint, error) {
	answers, err := decodeAnswers(answersJSON)
	if err != nil {
		return session.Checkpoint{}, store.NewStoreError("checkpoint", "get", "stored answers are invalid", err)
	}
	cp, err := session.NewCheckpoint(id, sessionID, position, answers, createdAt)
	if err != nil {
		return session.Checkpoint{}, store.NewStoreError("checkpoint", "get", "stored checkpoint is invalid", err)
	}
	return cp, nil
}
