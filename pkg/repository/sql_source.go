package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/nimburion/hrportal/pkg/observability/tracing"
)

// SQLExecutor runs read queries. *sql.DB and the postgres adapter both satisfy it.
type SQLExecutor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// dbSystem names the database for spans. Executors that do not report one are assumed to be
// PostgreSQL.
func dbSystem(executor SQLExecutor) string {
	if named, ok := executor.(interface{ DBSystem() string }); ok {
		return named.DBSystem()
	}
	return "postgresql"
}

// EntityMapper scans the current row into an entity. Columns are scanned in the order
// given to NewSQLSource.
type EntityMapper[T any] interface {
	FromRow(rows *sql.Rows) (*T, error)
}

// RowMapperFunc adapts a function to EntityMapper.
type RowMapperFunc[T any] func(rows *sql.Rows) (*T, error)

// FromRow calls f(rows).
func (f RowMapperFunc[T]) FromRow(rows *sql.Rows) (*T, error) { return f(rows) }

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLSource loads a whole table, ordered by its id column.
type SQLSource[T any] struct {
	executor SQLExecutor
	table    string
	query    string
	mapper   EntityMapper[T]
}

// NewSQLSource builds the SELECT statement once. Table and column names must be plain
// identifiers because they are interpolated into the statement.
func NewSQLSource[T any](executor SQLExecutor, table, idColumn string, columns []string, mapper EntityMapper[T]) (*SQLSource[T], error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("sql source %s: no columns", table)
	}
	for _, name := range append([]string{table, idColumn}, columns...) {
		if !identifier.MatchString(name) {
			return nil, fmt.Errorf("sql source %s: invalid identifier %q", table, name)
		}
	}
	return &SQLSource[T]{
		executor: executor,
		table:    table,
		query:    fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", strings.Join(columns, ", "), table, idColumn),
		mapper:   mapper,
	}, nil
}

// Name returns the table name.
func (s *SQLSource[T]) Name() string { return s.table }

// Load runs the SELECT and maps every row.
func (s *SQLSource[T]) Load(ctx context.Context) (_ []T, err error) {
	ctx, span := tracing.StartDatabaseSpan(ctx, tracing.DBQuery{
		System:    dbSystem(s.executor),
		Table:     s.table,
		Statement: s.query,
	})
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	rows, err := s.executor.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	entities := []T{}
	for rows.Next() {
		entity, err := s.mapper.FromRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", s.table, err)
		}
		entities = append(entities, *entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", s.table, err)
	}
	return entities, nil
}
