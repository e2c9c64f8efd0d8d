package migrate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNewSQLManagerNilDB(t *testing.T) {
	fs := fstest.MapFS{}
	_, err := NewSQLManager(nil, fs, "migrations")
	if err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestNewSQLManagerNilFS(t *testing.T) {
	_, err := NewSQLManager(nil, nil, "migrations")
	if err == nil {
		t.Fatal("expected error for nil fs")
	}
}

func TestNewSQLManagerEmptyDir(t *testing.T) {
	fs := fstest.MapFS{}
	_, err := NewSQLManager(nil, fs, "")
	if err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestLoadMigrationsMissingUp(t *testing.T) {
	fs := fstest.MapFS{
		"migrations/001_init.down.sql": {Data: []byte("DROP TABLE users")},
	}
	_, err := loadMigrations(fs, "migrations")
	if err == nil {
		t.Fatal("expected error for missing up migration")
	}
}

func TestLoadMigrationsSuccess(t *testing.T) {
	fs := fstest.MapFS{
		"migrations/001_init.up.sql":   {Data: []byte("CREATE TABLE users")},
		"migrations/001_init.down.sql": {Data: []byte("DROP TABLE users")},
		"migrations/002_add.up.sql":    {Data: []byte("ALTER TABLE users ADD COLUMN name TEXT")},
	}
	migrations, err := loadMigrations(fs, "migrations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Fatalf("unexpected versions: %v", migrations)
	}
}

func TestLoadMigrationsConflictingNames(t *testing.T) {
	fs := fstest.MapFS{
		"migrations/003_goals.up.sql":   {Data: []byte("CREATE TABLE goals (id TEXT)")},
		"migrations/003_courses.up.sql": {Data: []byte("CREATE TABLE courses (id TEXT)")},
	}
	_, err := loadMigrations(fs, "migrations")
	if err == nil || !strings.Contains(err.Error(), "version 3 is used by") {
		t.Fatalf("error = %v", err)
	}
}

func TestLoadMigrationsInvalidVersion(t *testing.T) {
	fs := fstest.MapFS{
		"migrations/abc_init.up.sql": {Data: []byte("CREATE TABLE users")},
	}
	migrations, err := loadMigrations(fs, "migrations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 0 {
		t.Fatalf("expected 0 migrations, got %d", len(migrations))
	}
}

func TestLoadMigrationsReadError(t *testing.T) {
	fs := fstest.MapFS{}
	_, err := loadMigrations(fs, "nonexistent")
	if err == nil {
		t.Fatal("expected error for nonexistent directory")
	}
}

func newMockManager(t *testing.T) (*SQLManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	files := fstest.MapFS{
		"migrations/0001_tables.up.sql":    {Data: []byte("CREATE TABLE goals (id TEXT)")},
		"migrations/0001_tables.down.sql":  {Data: []byte("DROP TABLE goals")},
		"migrations/0002_indexes.up.sql":   {Data: []byte("CREATE INDEX idx_goals ON goals (id)")},
		"migrations/0002_indexes.down.sql": {Data: []byte("DROP INDEX idx_goals")},
	}
	m, err := NewSQLManager(db, files, "migrations")
	if err != nil {
		t.Fatalf("NewSQLManager() error = %v", err)
	}
	return m, mock
}

func TestSQLManager_Up(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations ORDER BY version ASC").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(1)))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE INDEX idx_goals").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(int64(2), "indexes").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := m.Up(context.Background())
	if err != nil {
		t.Fatalf("Up() error = %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLManager_UpRollsBackOnFailure(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE goals").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	applied, err := m.Up(context.Background())
	if err == nil || !strings.Contains(err.Error(), "apply migration 1_tables: permission denied") {
		t.Fatalf("Up() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("applied = %d", applied)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLManager_Down(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations ORDER BY version DESC").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(2)).AddRow(int64(1)))
	mock.ExpectBegin()
	mock.ExpectExec("DROP INDEX idx_goals").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM schema_migrations").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	reverted, err := m.Down(context.Background(), 1)
	if err != nil {
		t.Fatalf("Down() error = %v", err)
	}
	if reverted != 1 {
		t.Errorf("reverted = %d", reverted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLManager_Status(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(1)))

	status, err := m.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if len(status.AppliedVersions) != 1 || len(status.Pending) != 1 || status.Pending[0].Name != "indexes" {
		t.Errorf("status = %+v", status)
	}
}

func TestSQLManager_DownWithoutFile(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations ORDER BY version DESC").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(9)))

	reverted, err := m.Down(context.Background(), 0)
	if err == nil || !strings.Contains(err.Error(), "applied version 9 has no migration file") {
		t.Fatalf("Down() error = %v", err)
	}
	if reverted != 0 {
		t.Errorf("reverted = %d", reverted)
	}
}
