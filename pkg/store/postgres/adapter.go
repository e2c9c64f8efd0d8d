// Package postgres connects the portal to PostgreSQL through database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/nimburion/hrportal/pkg/observability/logger"
)

const (
	pingTimeout   = 5 * time.Second
	healthTimeout = 2 * time.Second
)

// Config holds the pool settings read from the database section.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// QueryTimeout bounds a query whose context has no deadline of its own.
	QueryTimeout time.Duration
	// ApplicationName is reported in pg_stat_activity; ignored when the URL already sets one.
	ApplicationName string
}

// PostgreSQLAdapter is the pooled connection the SQL sources and migrations run on.
type PostgreSQLAdapter struct {
	db     *sql.DB
	log    logger.Logger
	config Config
}

// NewPostgreSQLAdapter opens a pool and pings it before returning.
func NewPostgreSQLAdapter(cfg Config, log logger.Logger) (*PostgreSQLAdapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("database URL is required")
	}
	dsn, err := connString(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	a := NewFromDB(db, cfg, log)
	a.log.Info("database connected",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
		"query_timeout", cfg.QueryTimeout,
	)
	return a, nil
}

// connString converts a postgres:// URL to lib/pq's key=value form and adds application_name.
func connString(cfg Config) (string, error) {
	dsn := cfg.URL
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		converted, err := pq.ParseURL(dsn)
		if err != nil {
			return "", fmt.Errorf("parse database URL: %w", err)
		}
		dsn = converted
	}
	if cfg.ApplicationName != "" && !strings.Contains(dsn, "application_name=") {
		dsn += " application_name='" + strings.ReplaceAll(cfg.ApplicationName, "'", `\'`) + "'"
	}
	return dsn, nil
}

// NewFromDB wraps an already opened pool.
func NewFromDB(db *sql.DB, cfg Config, log logger.Logger) *PostgreSQLAdapter {
	return &PostgreSQLAdapter{db: db, log: log.With("db_system", "postgresql"), config: cfg}
}

func (a *PostgreSQLAdapter) DB() *sql.DB { return a.db }

// DBSystem is the OpenTelemetry db.system value.
func (a *PostgreSQLAdapter) DBSystem() string { return "postgresql" }

// QueryContext runs a query under the configured timeout when ctx has no deadline. The timeout
// stays armed until ctx ends, so it also bounds iterating the rows.
func (a *PostgreSQLAdapter) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	queryCtx, cancel := a.withQueryTimeout(ctx)
	rows, err := a.db.QueryContext(queryCtx, query, args...)
	if err != nil {
		cancel()
		return nil, err
	}
	context.AfterFunc(ctx, cancel)
	return rows, nil
}

func (a *PostgreSQLAdapter) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || a.config.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.config.QueryTimeout)
}

// HealthCheck pings the pool with a two second cap.
func (a *PostgreSQLAdapter) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := a.db.PingContext(ctx); err != nil {
		a.log.Warn("database health check failed", "error", err)
		return fmt.Errorf("postgres health check: %w", err)
	}
	return nil
}

// Close closes the pool and waits for in-flight queries.
func (a *PostgreSQLAdapter) Close() error {
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	a.log.Info("database closed")
	return nil
}
