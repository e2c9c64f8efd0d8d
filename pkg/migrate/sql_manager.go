package migrate

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// fileName matches "<version>_<name>.up.sql" and "<version>_<name>.down.sql".
var fileName = regexp.MustCompile(`^(\d+)_([A-Za-z0-9_-]+)\.(up|down)\.sql$`)

const (
	createMetadata = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	recordApplied  = `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`
	recordReverted = `DELETE FROM schema_migrations WHERE version = $1`
)

// Migration is one versioned schema change.
type Migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

func (m Migration) String() string { return fmt.Sprintf("%d_%s", m.Version, m.Name) }

// DB is the subset of *sql.DB the manager needs.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// SQLManager applies migrations and records them in schema_migrations. Each migration runs in
// its own transaction together with its bookkeeping row.
type SQLManager struct {
	db         DB
	migrations []Migration
}

// NewSQLManager loads the migration files of dir in files.
func NewSQLManager(db DB, files fs.FS, dir string) (*SQLManager, error) {
	switch {
	case db == nil:
		return nil, errors.New("database handle is required")
	case files == nil:
		return nil, errors.New("migration files filesystem is required")
	case strings.TrimSpace(dir) == "":
		return nil, errors.New("migration directory is required")
	}
	migrations, err := loadMigrations(files, dir)
	if err != nil {
		return nil, err
	}
	return &SQLManager{db: db, migrations: migrations}, nil
}

// Migrations returns the loaded migrations in version order.
func (m *SQLManager) Migrations() []Migration {
	return slices.Clone(m.migrations)
}

// Up applies every pending migration in version order and returns how many ran. It stops at
// the first failure; migrations applied before it stay applied.
func (m *SQLManager) Up(ctx context.Context) (int, error) {
	applied, err := m.applied(ctx, false)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, mg := range m.migrations {
		if slices.Contains(applied, mg.Version) {
			continue
		}
		err := m.step(ctx, mg.UpSQL, recordApplied, []any{mg.Version, mg.Name})
		if err != nil {
			return n, fmt.Errorf("apply migration %s: %w", mg, err)
		}
		n++
	}
	return n, nil
}

// Down reverts the newest steps applied migrations; steps below one means one.
func (m *SQLManager) Down(ctx context.Context, steps int) (int, error) {
	applied, err := m.applied(ctx, true)
	if err != nil {
		return 0, err
	}
	steps = min(max(steps, 1), len(applied))

	n := 0
	for _, version := range applied[:steps] {
		mg, ok := m.find(version)
		if !ok {
			return n, fmt.Errorf("applied version %d has no migration file", version)
		}
		if strings.TrimSpace(mg.DownSQL) == "" {
			return n, fmt.Errorf("migration %s has no down script", mg)
		}
		if err := m.step(ctx, mg.DownSQL, recordReverted, []any{version}); err != nil {
			return n, fmt.Errorf("revert migration %s: %w", mg, err)
		}
		n++
	}
	return n, nil
}

// Status reports applied versions, oldest first, and the migrations still pending.
func (m *SQLManager) Status(ctx context.Context) (*Status, error) {
	applied, err := m.applied(ctx, false)
	if err != nil {
		return nil, err
	}
	status := &Status{AppliedVersions: applied, Pending: []PendingMigration{}}
	for _, mg := range m.migrations {
		if !slices.Contains(applied, mg.Version) {
			status.Pending = append(status.Pending, PendingMigration{Version: mg.Version, Name: mg.Name})
		}
	}
	return status, nil
}

// step runs script and the bookkeeping statement in one transaction.
func (m *SQLManager) step(ctx context.Context, script, bookkeeping string, args []any) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, script); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, bookkeeping, args...); err != nil {
		return fmt.Errorf("update schema_migrations: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// applied creates schema_migrations when missing and lists the recorded versions.
func (m *SQLManager) applied(ctx context.Context, newestFirst bool) ([]int64, error) {
	if _, err := m.db.ExecContext(ctx, createMetadata); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	order := "ASC"
	if newestFirst {
		order = "DESC"
	}
	rows, err := m.db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version "+order)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	versions := []int64{}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (m *SQLManager) find(version int64) (Migration, bool) {
	i, ok := slices.BinarySearchFunc(m.migrations, version, func(mg Migration, v int64) int {
		return cmp.Compare(mg.Version, v)
	})
	if !ok {
		return Migration{}, false
	}
	return m.migrations[i], true
}

// loadMigrations pairs the up and down files of dir by version. Files with other names are
// ignored. Two names for one version, or a version without an up file, are errors.
func loadMigrations(files fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("read migration files: %w", err)
	}

	byVersion := map[int64]*Migration{}
	for _, entry := range entries {
		parts := fileName.FindStringSubmatch(entry.Name())
		if entry.IsDir() || parts == nil {
			continue
		}
		version, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %q: version: %w", entry.Name(), err)
		}
		body, err := fs.ReadFile(files, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", entry.Name(), err)
		}

		mg := byVersion[version]
		if mg == nil {
			mg = &Migration{Version: version, Name: parts[2]}
			byVersion[version] = mg
		} else if mg.Name != parts[2] {
			return nil, fmt.Errorf("migration version %d is used by %q and %q", version, mg.Name, parts[2])
		}
		if parts[3] == "up" {
			mg.UpSQL = string(body)
		} else {
			mg.DownSQL = string(body)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, mg := range byVersion {
		if strings.TrimSpace(mg.UpSQL) == "" {
			return nil, fmt.Errorf("migration %s has no up script", mg)
		}
		migrations = append(migrations, *mg)
	}
	slices.SortFunc(migrations, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	return migrations, nil
}
