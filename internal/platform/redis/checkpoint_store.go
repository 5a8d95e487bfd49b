package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain/session"
	"github.com/phrazzld/exam-api/internal/platform/logger"
	"github.com/phrazzld/exam-api/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultCheckpointTTL applies when NewCheckpointStore is given a
// non-positive TTL.
const DefaultCheckpointTTL = 24 * time.Hour

const (
	checkpointPrefix = "checkpoint:"
	sessionPrefix    = "session:"
)

func checkpointKey(id uuid.UUID) string {
	return checkpointPrefix + id.String()
}

func sessionIndexKey(sessionID uuid.UUID) string {
	return sessionPrefix + sessionID.String() + ":checkpoints"
}

// CheckpointStore implements store.CheckpointStore on Redis. Checkpoints
// expire after the configured TTL; every new checkpoint extends the TTL of
// its session's index.
type CheckpointStore struct {
	client goredis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

var _ store.CheckpointStore = (*CheckpointStore)(nil)

// NewCheckpointStore creates a CheckpointStore on client.
// If logger is nil, the default logger is used.
func NewCheckpointStore(client goredis.Cmdable, ttl time.Duration, logger *slog.Logger) *CheckpointStore {
	if client == nil {
		panic("client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultCheckpointTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckpointStore{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_checkpoint_store")),
	}
}

// Create implements store.CheckpointStore.Create.
func (s *CheckpointStore) Create(ctx context.Context, cp session.Checkpoint) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := cp.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return store.NewStoreError("checkpoint", "create", "failed to encode checkpoint", err)
	}

	created, err := s.client.SetNX(ctx, checkpointKey(cp.ID()), data, s.ttl).Result()
	if err != nil {
		log.Error("failed to store checkpoint",
			slog.String("error", err.Error()),
			slog.String("checkpoint_id", cp.ID().String()))
		return store.NewStoreError("checkpoint", "create", "redis write failed", err)
	}
	if !created {
		return store.ErrDuplicate
	}

	indexKey := sessionIndexKey(cp.SessionID())
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZAdd(ctx, indexKey, goredis.Z{
			Score:  float64(cp.CreatedAt().UnixNano()),
			Member: cp.ID().String(),
		})
		pipe.Expire(ctx, indexKey, s.ttl)
		return nil
	})
	if err != nil {
		log.Error("failed to index checkpoint",
			slog.String("error", err.Error()),
			slog.String("checkpoint_id", cp.ID().String()))
		_ = s.client.Del(ctx, checkpointKey(cp.ID())).Err()
		return store.NewStoreError("checkpoint", "create", "redis index write failed", err)
	}

	log.Debug("checkpoint stored",
		slog.String("checkpoint_id", cp.ID().String()),
		slog.String("session_id", cp.SessionID().String()),
		slog.Duration("ttl", s.ttl))
	return nil
}

// GetByID implements store.CheckpointStore.GetByID.
func (s *CheckpointStore) GetByID(ctx context.Context, id uuid.UUID) (session.Checkpoint, error) {
	data, err := s.client.Get(ctx, checkpointKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return session.Checkpoint{}, store.ErrCheckpointNotFound
		}
		return session.Checkpoint{}, store.NewStoreError("checkpoint", "get", "redis read failed", err)
	}
	return decodeCheckpoint(data)
}

// ListBySession implements store.CheckpointStore.ListBySession. Expired
// checkpoints are skipped and pruned from the index.
func (s *CheckpointStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]session.Checkpoint, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	indexKey := sessionIndexKey(sessionID)

	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, store.NewStoreError("checkpoint", "list", "redis index read failed", err)
	}
	checkpoints := []session.Checkpoint{}
	if len(ids) == 0 {
		return checkpoints, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = checkpointPrefix + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, store.NewStoreError("checkpoint", "list", "redis read failed", err)
	}

	var expired []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		cp, err := decodeCheckpoint([]byte(raw))
		if err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, cp)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, indexKey, expired...).Err(); err != nil {
			log.Warn("failed to prune expired checkpoints",
				slog.String("error", err.Error()),
				slog.String("session_id", sessionID.String()))
		} else {
			log.Debug("pruned expired checkpoints",
				slog.String("session_id", sessionID.String()),
				slog.Int("count", len(expired)))
		}
	}
	return checkpoints, nil
}

func decodeCheckpoint(data []byte) (session.Checkpoint, error) {
	var cp session.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return session.Checkpoint{}, store.NewStoreError("checkpoint", "get", "stored checkpoint is invalid", err)
	}
	return cp, nil
}
