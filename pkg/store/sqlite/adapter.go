// Package sqlite connects the portal to a single-file SQLite database through the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/nimburion/hrportal/pkg/observability/logger"
)

// Config holds SQLite connection configuration
type Config struct {
	// DSN is a file path or a "file:" URI. ":memory:" opens a private in-memory database.
	DSN string
	// BusyTimeout is how long a writer waits for a lock; 5s when zero.
	BusyTimeout time.Duration
}

// SQLiteAdapter provides SQLite connectivity
type SQLiteAdapter struct {
	db     *sql.DB
	logger logger.Logger
	dsn    string
}

// NewSQLiteAdapter opens the database, enables foreign keys and WAL for file databases, and pings it.
func NewSQLiteAdapter(cfg Config, log logger.Logger) (*SQLiteAdapter, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("sqlite DSN is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds()),
		"PRAGMA foreign_keys = ON",
	}
	if dsn != ":memory:" && !strings.Contains(dsn, "mode=memory") {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite %q: %w", p, err)
		}
	}

	log.Info("SQLite database opened", "dsn", dsn)
	return &SQLiteAdapter{db: db, logger: log, dsn: dsn}, nil
}

// DB returns the underlying *sql.DB for migrations and seeding.
func (a *SQLiteAdapter) DB() *sql.DB {
	return a.db
}

// DBSystem reports "sqlite" for tracing attributes.
func (a *SQLiteAdapter) DBSystem() string { return "sqlite" }

// QueryContext runs a read query.
func (a *SQLiteAdapter) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return a.db.QueryContext(ctx, query, args...)
}

// HealthCheck pings the database with a 2 second timeout.
func (a *SQLiteAdapter) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := a.db.PingContext(ctx); err != nil {
		a.logger.Error("SQLite health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Close closes the database.
func (a *SQLiteAdapter) Close() error {
	a.logger.Info("closing SQLite database", "dsn", a.dsn)
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite database: %w", err)
	}
	return nil
}
