package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/observability/tracing"
	"github.com/nimburion/hrportal/pkg/store"
)

// SnapshotStore keeps serialized collection snapshots. A missing key must be reported with
// an error wrapping store.ErrNotFound.
type SnapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error
}

// CachedSource serves a wrapped source from a JSON snapshot while the snapshot is fresh.
// Cache failures are logged and never fail a load.
type CachedSource[T any] struct {
	inner Source[T]
	store SnapshotStore
	key   string
	ttl   time.Duration
	log   logger.Logger
}

// SnapshotKeyPrefix prefixes every snapshot key; the source name follows it.
const SnapshotKeyPrefix = "hrportal:snapshot:"

// NewCachedSource wraps inner. The snapshot key is SnapshotKeyPrefix plus the inner name.
func NewCachedSource[T any](inner Source[T], snapshots SnapshotStore, ttl time.Duration, log logger.Logger) *CachedSource[T] {
	return &CachedSource[T]{
		inner: inner,
		store: snapshots,
		key:   SnapshotKeyPrefix + inner.Name(),
		ttl:   ttl,
		log:   log.With("source", inner.Name()),
	}
}

func (s *CachedSource[T]) Name() string { return s.inner.Name() }

// Load returns the cached snapshot or loads the wrapped source and stores a new snapshot.
func (s *CachedSource[T]) Load(ctx context.Context) ([]T, error) {
	if records, ok := s.fromCache(ctx); ok {
		return records, nil
	}

	records, err := s.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(records)
	if err != nil {
		s.log.Warn("snapshot encode failed", "error", err)
		return records, nil
	}
	ctx, span := tracing.StartCacheSpan(ctx, tracing.SpanOperationCacheSet, s.key)
	defer span.End()
	if err := s.store.SetWithTTL(ctx, s.key, string(payload), s.ttl); err != nil {
		tracing.RecordError(span, err)
		s.log.Warn("snapshot store failed", "error", err)
	}
	return records, nil
}

func (s *CachedSource[T]) fromCache(ctx context.Context) ([]T, bool) {
	ctx, span := tracing.StartCacheSpan(ctx, tracing.SpanOperationCacheGet, s.key)
	defer span.End()

	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		tracing.RecordCacheHit(span, false)
		if !errors.Is(err, store.ErrNotFound) {
			tracing.RecordError(span, err)
			s.log.Warn("snapshot read failed", "error", err)
		}
		return nil, false
	}

	records := []T{}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		tracing.RecordCacheHit(span, false)
		s.log.Warn("snapshot decode failed", "error", err)
		return nil, false
	}
	tracing.RecordCacheHit(span, true)
	s.log.Debug("snapshot hit", "records", len(records))
	return records, true
}

// MemorySnapshotStore is an in-process SnapshotStore.
type MemorySnapshotStore struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]memoryItem
}

type memoryItem struct {
	value   string
	expires time.Time
}

// NewMemorySnapshotStore returns an empty store using the wall clock.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{now: time.Now, items: map[string]memoryItem{}}
}

// Get returns the value stored at key unless it expired.
func (m *MemorySnapshotStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok || (!item.expires.IsZero() && !m.now().Before(item.expires)) {
		delete(m.items, key)
		return "", store.ErrNotFound
	}
	return item.value, nil
}

// SetWithTTL stores value. A non-positive ttl never expires.
func (m *MemorySnapshotStore) SetWithTTL(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}
	m.items[key] = item
	return nil
}
