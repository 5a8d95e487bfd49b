package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/exam-api/internal/config"
	"github.com/phrazzld/exam-api/internal/events"
	"github.com/phrazzld/exam-api/internal/platform/memory"
	"github.com/phrazzld/exam-api/internal/platform/postgres"
	"github.com/phrazzld/exam-api/internal/platform/redis"
	"github.com/phrazzld/exam-api/internal/service"
	"github.com/phrazzld/exam-api/internal/service/auth"
	"github.com/phrazzld/exam-api/internal/store"
	"github.com/phrazzld/exam-api/internal/task"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	db    *sql.DB
	redis *goredis.Client

	examStore       store.ExamStore
	sessionStore    store.SessionStore
	checkpointStore store.CheckpointStore

	jwtService     auth.JWTService
	examService    service.ExamService
	sessionService service.SessionService
	eventEmitter   *events.InMemoryEventEmitter
	eventQueue     *task.TaskQueue
	eventWorkers   *task.WorkerPool
}

// newApplication connects to the configured backends and builds the
// services. Without a database URL every store is in memory; without a
// Redis URL checkpoints live in the same store as sessions.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	if err := app.setupStores(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	if err := app.setupServices(); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("application initialized")
	return app, nil
}

func (app *application) setupStores(ctx context.Context) error {
	cfg := app.config

	if cfg.Database.URL == "" {
		app.logger.Warn("no database configured, using in-memory stores")
		exams := memory.NewExamStore()
		app.examStore = exams
		app.sessionStore = memory.NewSessionStore(exams)
		app.checkpointStore = memory.NewCheckpointStore()
	} else {
		db, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
		if err != nil {
			return err
		}
		app.db = db
		app.logger.Info("database connection established")

		if cfg.Database.MigrateOnStart {
			if err := postgres.Migrate(db, "up", app.logger); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
		}

		app.examStore = postgres.NewPostgresExamStore(db, app.logger)
		app.sessionStore = postgres.NewPostgresSessionStore(db, app.logger)
		app.checkpointStore = postgres.NewPostgresCheckpointStore(db, app.logger)
	}

	if cfg.Redis.URL != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		app.redis = client
		ttl := time.Duration(cfg.Redis.CheckpointTTLMinutes) * time.Minute
		app.checkpointStore = redis.NewCheckpointStore(client, ttl, app.logger)
		app.logger.Info("redis checkpoint store enabled", slog.Duration("ttl", ttl))
	}
	return nil
}

func (app *application) setupServices() error {
	app.eventQueue = task.NewTaskQueue(app.config.Events.QueueSize, app.logger)
	app.eventWorkers = task.NewWorkerPool(app.eventQueue, task.WorkerPoolConfig{
		WorkerCount: app.config.Events.WorkerCount,
	}, app.logger)
	app.eventWorkers.SetErrorHandler(app.logEventFailure)
	app.eventWorkers.Start()

	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)
	app.eventEmitter.RegisterHandler(
		task.NewAsyncEventHandler(app.eventQueue, events.NewLoggingHandler(app.logger), app.logger),
	)

	var err error
	app.examService, err = service.NewExamService(app.examStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create exam service: %w", err)
	}

	app.sessionService, err = service.NewSessionService(service.SessionServiceConfig{
		Sessions:    app.sessionStore,
		Checkpoints: app.checkpointStore,
		Exams:       app.examStore,
		Emitter:     app.eventEmitter,
		TimeLimit:   time.Duration(app.config.Exam.TimeLimitMinutes) * time.Minute,
		Logger:      app.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create session service: %w", err)
	}
	return nil
}

// Run serves HTTP until ctx is canceled or the process is signaled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup delivers queued events and releases backend connections.
func (app *application) cleanup() {
	if app.eventQueue != nil {
		app.eventQueue.Close()
		app.drainEvents(5 * time.Second)
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis connection", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}

// drainEvents waits for the event workers to empty the closed queue, then
// stops them.
func (app *application) drainEvents(timeout time.Duration) {
	if app.eventWorkers == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		app.eventWorkers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		app.logger.Warn("timed out delivering queued session events")
	}
	app.eventWorkers.Stop()
}

// logEventFailure reports a background task that failed. Session event
// deliveries are logged with the event they carried.
func (app *application) logEventFailure(t task.Task, err error) {
	attrs := []any{
		slog.String("task_id", t.ID().String()),
		slog.String("task_type", t.Type()),
		slog.String("error", err.Error()),
	}
	if et, ok := t.(*task.EventTask); ok {
		event := et.Event()
		attrs = append(attrs,
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()),
			slog.String("session_id", event.SessionID.String()))
	}
	app.logger.Error("session event delivery failed", attrs...)
}
