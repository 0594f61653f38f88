package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type Config struct {
	Path string
}

// Open connects to the SQLite store and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sqlx.DB, error) {
	logger.Info("connecting to database", "path", cfg.Path)
	dsn := "file:" + cfg.Path + "?_pragma=foreign_keys(1)&_time_format=sqlite"
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	// SQLite writes are single-connection anyway.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		logger.Error("failed to initialize schema", "error", err)
		return nil, err
	}

	logger.Info("successfully connected to database")
	return db, nil
}

// Close closes the database connection gracefully
func Close(db *sqlx.DB, logger *slog.Logger) {
	logger.Info("closing database connection")
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
}

// HealthCheck pings the store to catch path/permission issues early.
func HealthCheck(ctx context.Context, db *sqlx.DB, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}

func migrate(db *sqlx.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS schedules (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			detected_frequency TEXT,
			suggested_frequency TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS schedule_tasks (
			id TEXT PRIMARY KEY,
			schedule_id TEXT NOT NULL,
			description TEXT NOT NULL,
			frequency TEXT,
			notes TEXT,
			position INTEGER NOT NULL,
			FOREIGN KEY(schedule_id) REFERENCES schedules(id)
		)`,

		`CREATE TABLE IF NOT EXISTS cleaning_tasks (
			id TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			frequency TEXT NOT NULL,
			estimated_duration TEXT NOT NULL,
			area TEXT,
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS assignments (
			id TEXT PRIMARY KEY,
			schedule_id TEXT NOT NULL,
			target_kind TEXT NOT NULL,
			target_id TEXT NOT NULL,
			frequency TEXT NOT NULL,
			next_due DATETIME NOT NULL,
			last_completed DATETIME,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY(schedule_id) REFERENCES schedules(id)
		)`,

		`CREATE TABLE IF NOT EXISTS completions (
			id TEXT PRIMARY KEY,
			assignment_id TEXT NOT NULL,
			completed_tasks TEXT NOT NULL,
			notes TEXT,
			completed_at DATETIME NOT NULL,
			FOREIGN KEY(assignment_id) REFERENCES assignments(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_schedule_tasks_schedule ON schedule_tasks(schedule_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_schedule ON assignments(schedule_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_target ON assignments(target_kind, target_id)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_assignment ON completions(assignment_id)`,
	}

	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
