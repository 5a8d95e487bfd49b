package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/domain"
	"github.com/phrazzld/exam-api/internal/domain/session"
	"github.com/phrazzld/exam-api/internal/domain/timer"
	"github.com/phrazzld/exam-api/internal/events"
	"github.com/phrazzld/exam-api/internal/platform/logger"
	"github.com/phrazzld/exam-api/internal/store"
)

// SessionStatus is a session together with its time budget.
type SessionStatus struct {
	Session   *session.Session
	Deadline  time.Time
	Remaining time.Duration
	Expired   bool
}

// QuestionResult is the grading outcome for one question.
type QuestionResult struct {
	Index    int
	Question string
	Answer   string
	Answered bool
	Correct  bool
}

// GradeReport scores a session against its exam. Answers are matched to
// questions by position in pre-order.
type GradeReport struct {
	SessionID uuid.UUID
	ExamID    uuid.UUID
	Results   []QuestionResult
	Score     int
	Total     int
}

// SessionService runs candidates' exam attempts.
type SessionService interface {
	// Start opens a new session on examID for candidateID.
	Start(ctx context.Context, candidateID, examID uuid.UUID) (*SessionStatus, error)

	// GetSession returns the session with its remaining time.
	GetSession(ctx context.Context, candidateID, sessionID uuid.UUID) (*SessionStatus, error)

	// Answer records answer at the session's current position.
	// Returns ErrTimeExpired once the time limit has passed.
	Answer(ctx context.Context, candidateID, sessionID uuid.UUID, answer string) (*SessionStatus, error)

	// SaveCheckpoint stores a snapshot of the session.
	SaveCheckpoint(ctx context.Context, candidateID, sessionID uuid.UUID) (session.Checkpoint, error)

	// ListCheckpoints returns the session's checkpoints, oldest first.
	ListCheckpoints(ctx context.Context, candidateID, sessionID uuid.UUID) ([]session.Checkpoint, error)

	// Restore rolls the session back to checkpointID.
	Restore(ctx context.Context, candidateID, sessionID, checkpointID uuid.UUID) (*SessionStatus, error)

	// Grade scores the session's answers.
	Grade(ctx context.Context, candidateID, sessionID uuid.UUID) (*GradeReport, error)
}

// SessionServiceConfig holds the dependencies of NewSessionService. Emitter,
// Clock and Logger are optional.
type SessionServiceConfig struct {
	Sessions    store.SessionStore
	Checkpoints store.CheckpointStore
	Exams       store.ExamStore
	Emitter     events.EventEmitter
	TimeLimit   time.Duration
	Clock       timer.Clock
	Logger      *slog.Logger
}

type sessionServiceImpl struct {
	sessions    store.SessionStore
	checkpoints store.CheckpointStore
	exams       store.ExamStore
	emitter     events.EventEmitter
	limit       time.Duration
	clock       timer.Clock
	logger      *slog.Logger
}

// NewSessionService creates a SessionService.
// It returns an error if a required store is nil.
func NewSessionService(cfg SessionServiceConfig) (SessionService, error) {
	if cfg.Sessions == nil {
		return nil, domain.NewValidationError("sessions", "cannot be nil", domain.ErrValidation)
	}
	if cfg.Checkpoints == nil {
		return nil, domain.NewValidationError("checkpoints", "cannot be nil", domain.ErrValidation)
	}
	if cfg.Exams == nil {
		return nil, domain.NewValidationError("exams", "cannot be nil", domain.ErrValidation)
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = timer.DefaultLimit
	}
	if cfg.Clock == nil {
		cfg.Clock = timer.SystemClock
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &sessionServiceImpl{
		sessions:    cfg.Sessions,
		checkpoints: cfg.Checkpoints,
		exams:       cfg.Exams,
		emitter:     cfg.Emitter,
		limit:       cfg.TimeLimit,
		clock:       cfg.Clock,
		logger:      cfg.Logger.With(slog.String("component", "session_service")),
	}, nil
}

func (s *sessionServiceImpl) status(sess *session.Session) *SessionStatus {
	t := timer.StartedAt(sess.StartedAt, s.limit, s.clock)
	return &SessionStatus{
		Session:   sess,
		Deadline:  t.Deadline(),
		Remaining: t.Remaining(),
		Expired:   t.Expired(),
	}
}

// owned loads sessionID through sessions and checks that candidateID owns it.
func owned(ctx context.Context, sessions store.SessionStore, candidateID, sessionID uuid.UUID) (*session.Session, error) {
	sess, err := sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.CandidateID != candidateID {
		return nil, ErrSessionNotOwned
	}
	return sess, nil
}

func (s *sessionServiceImpl) emit(ctx context.Context, eventType string, sess *session.Session, payload interface{}) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	event, err := events.NewSessionEvent(eventType, sess.ID, sess.CandidateID, payload)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Warn("failed to emit session event",
			slog.String("event_type", eventType),
			slog.String("session_id", sess.ID.String()),
			slog.String("error", err.Error()))
	}
}

// Start implements SessionService.Start.
func (s *sessionServiceImpl) Start(ctx context.Context, candidateID, examID uuid.UUID) (*SessionStatus, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		return nil, wrapError("session", "start", err)
	}
	sess, err := session.New(examID, candidateID)
	if err != nil {
		return nil, wrapError("session", "start", err)
	}
	sess.StartedAt = s.clock.Now().UTC()
	sess.UpdatedAt = sess.StartedAt

	if err := s.sessions.Create(ctx, sess); err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("exam_id", examID.String()))
		return nil, wrapError("session", "start", err)
	}

	log.Info("session started",
		slog.String("session_id", sess.ID.String()),
		slog.String("exam_id", examID.String()),
		slog.String("candidate_id", candidateID.String()))
	return s.status(sess), nil
}

// GetSession implements SessionService.GetSession.
func (s *sessionServiceImpl) GetSession(ctx context.Context, candidateID, sessionID uuid.UUID) (*SessionStatus, error) {
	sess, err := owned(ctx, s.sessions, candidateID, sessionID)
	if err != nil {
		return nil, wrapError("session", "get", err)
	}
	return s.status(sess), nil
}

// Answer implements SessionService.Answer.
func (s *sessionServiceImpl) Answer(
	ctx context.Context,
	candidateID, sessionID uuid.UUID,
	answer string,
) (*SessionStatus, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		updated  *session.Session
		position int
	)
	err := s.sessions.WithinTransaction(ctx, func(ctx context.Context, sessions store.SessionStore) error {
		sess, err := owned(ctx, sessions, candidateID, sessionID)
		if err != nil {
			return err
		}
		if timer.StartedAt(sess.StartedAt, s.limit, s.clock).Expired() {
			return ErrTimeExpired
		}
		position = sess.Position
		sess.AnswerQuestion(answer)
		sess.UpdatedAt = s.clock.Now().UTC()
		if err := sessions.Update(ctx, sess); err != nil {
			return err
		}
		updated = sess
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTimeExpired) {
			log.Info("answer rejected after time limit", slog.String("session_id", sessionID.String()))
		}
		return nil, wrapError("session", "answer", err)
	}

	s.emit(ctx, events.AnswerRecorded, updated, events.AnswerPayload{Position: position, Answer: answer})
	return s.status(updated), nil
}

// SaveCheckpoint implements SessionService.SaveCheckpoint.
func (s *sessionServiceImpl) SaveCheckpoint(
	ctx context.Context,
	candidateID, sessionID uuid.UUID,
) (session.Checkpoint, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sess, err := owned(ctx, s.sessions, candidateID, sessionID)
	if err != nil {
		return session.Checkpoint{}, wrapError("session", "save_checkpoint", err)
	}
	cp := sess.Save()
	if err := s.checkpoints.Create(ctx, cp); err != nil {
		log.Error("failed to store checkpoint",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return session.Checkpoint{}, wrapError("session", "save_checkpoint", err)
	}

	log.Debug("checkpoint saved",
		slog.String("session_id", sessionID.String()),
		slog.String("checkpoint_id", cp.ID().String()),
		slog.Int("position", cp.Position()))
	s.emit(ctx, events.CheckpointSaved, sess, events.CheckpointPayload{CheckpointID: cp.ID(), Position: cp.Position()})
	return cp, nil
}

// ListCheckpoints implements SessionService.ListCheckpoints.
func (s *sessionServiceImpl) ListCheckpoints(
	ctx context.Context,
	candidateID, sessionID uuid.UUID,
) ([]session.Checkpoint, error) {
	if _, err := owned(ctx, s.sessions, candidateID, sessionID); err != nil {
		return nil, wrapError("session", "list_checkpoints", err)
	}
	cps, err := s.checkpoints.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, wrapError("session", "list_checkpoints", err)
	}
	return cps, nil
}

// Restore implements SessionService.Restore. A checkpoint taken from a
// different session is reported as not found.
func (s *sessionServiceImpl) Restore(
	ctx context.Context,
	candidateID, sessionID, checkpointID uuid.UUID,
) (*SessionStatus, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cp, err := s.checkpoints.GetByID(ctx, checkpointID)
	if err != nil {
		return nil, wrapError("session", "restore", err)
	}
	if cp.SessionID() != sessionID {
		return nil, wrapError("session", "restore", store.ErrCheckpointNotFound)
	}

	var restored *session.Session
	err = s.sessions.WithinTransaction(ctx, func(ctx context.Context, sessions store.SessionStore) error {
		sess, err := owned(ctx, sessions, candidateID, sessionID)
		if err != nil {
			return err
		}
		if err := sess.Restore(cp); err != nil {
			return err
		}
		sess.UpdatedAt = s.clock.Now().UTC()
		if err := sessions.Update(ctx, sess); err != nil {
			return err
		}
		restored = sess
		return nil
	})
	if err != nil {
		return nil, wrapError("session", "restore", err)
	}

	log.Info("session restored",
		slog.String("session_id", sessionID.String()),
		slog.String("checkpoint_id", checkpointID.String()),
		slog.Int("position", restored.Position))
	s.emit(ctx, events.SessionRestored, restored, events.CheckpointPayload{CheckpointID: cp.ID(), Position: cp.Position()})
	return s.status(restored), nil
}

// Grade implements SessionService.Grade.
func (s *sessionServiceImpl) Grade(ctx context.Context, candidateID, sessionID uuid.UUID) (*GradeReport, error) {
	sess, err := owned(ctx, s.sessions, candidateID, sessionID)
	if err != nil {
		return nil, wrapError("session", "grade", err)
	}
	e, err := s.exams.GetByID(ctx, sess.ExamID)
	if err != nil {
		return nil, wrapError("session", "grade", err)
	}

	questions := e.Root.Questions()
	report := &GradeReport{
		SessionID: sess.ID,
		ExamID:    e.ID,
		Results:   make([]QuestionResult, len(questions)),
		Total:     len(questions),
	}
	for i, q := range questions {
		answered := i < len(sess.Answers)
		res := QuestionResult{
			Index:    i,
			Question: q.Text(),
			Answer:   sess.Answer(i),
			Answered: answered,
			Correct:  answered && q.CheckAnswer(sess.Answers[i]),
		}
		if res.Correct {
			report.Score++
		}
		report.Results[i] = res
	}
	return report, nil
}
