package repository

import (
	"context"
	"slices"
)

// Source fetches a fully materialized collection.
type Source[T any] interface {
	Name() string
	Load(ctx context.Context) ([]T, error)
}

// StaticSource serves an in-memory collection. Each Load returns a fresh copy.
type StaticSource[T any] struct {
	name    string
	records []T
}

// NewStaticSource creates a source over records. The slice is copied.
func NewStaticSource[T any](name string, records []T) *StaticSource[T] {
	return &StaticSource[T]{name: name, records: slices.Clone(records)}
}

func (s *StaticSource[T]) Name() string { return s.name }

// Load returns a copy of the records.
func (s *StaticSource[T]) Load(context.Context) ([]T, error) {
	out := slices.Clone(s.records)
	if out == nil {
		out = []T{}
	}
	return out, nil
}
