// Package main implements examd, the HTTP server that stores exams and runs
// candidates' timed exam sessions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"slices"
	"strings"

	"github.com/phrazzld/exam-api/internal/config"
	"github.com/phrazzld/exam-api/internal/platform/logger"
	"github.com/phrazzld/exam-api/internal/platform/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (default: ./config.yaml if present)")
	migrateCmd := flag.String("migrate", "",
		"Run a database migration command and exit ("+strings.Join(postgres.MigrationCommands, ", ")+")")
	flag.Parse()

	if err := run(context.Background(), *configPath, *migrateCmd); err != nil {
		log.Fatalf("examd: %v", err)
	}
}

// run loads configuration and either executes a migration command or
// serves HTTP until interrupted.
func run(ctx context.Context, configPath, migrateCmd string) error {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("database_configured", cfg.Database.URL != ""),
		slog.Bool("redis_configured", cfg.Redis.URL != ""))

	if migrateCmd != "" {
		return runMigration(ctx, cfg, migrateCmd, l)
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// runMigration executes a single goose command against the configured database.
func runMigration(ctx context.Context, cfg *config.Config, command string, l *slog.Logger) error {
	if !slices.Contains(postgres.MigrationCommands, command) {
		return fmt.Errorf("unknown migration command %q (want one of %s)",
			command, strings.Join(postgres.MigrationCommands, ", "))
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("migration %q requires database.url", command)
	}

	db, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}()

	return postgres.Migrate(db, command, l)
}
