package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimburion/hrportal/pkg/middleware/testutil"
	"github.com/nimburion/hrportal/pkg/store"
)

// countingSource counts loads of the wrapped source.
type countingSource struct {
	Source[goal]
	loads int
}

func (c *countingSource) Load(ctx context.Context) ([]goal, error) {
	c.loads++
	return c.Source.Load(ctx)
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("redis: connection refused")
}
func (brokenStore) SetWithTTL(context.Context, string, string, time.Duration) error {
	return errors.New("redis: connection refused")
}

func TestCachedSource_ServesSnapshot(t *testing.T) {
	inner := &countingSource{Source: NewStaticSource("goals", goals())}
	snapshots := NewMemorySnapshotStore()
	src := NewCachedSource[goal](inner, snapshots, time.Minute, testutil.NewMockLogger())

	first, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if inner.loads != 1 {
		t.Errorf("inner loads = %d, want 1", inner.loads)
	}
	if len(second) != len(first) || second[2] != first[2] {
		t.Errorf("snapshot differs: %+v vs %+v", second, first)
	}
	if src.Name() != "goals" {
		t.Errorf("Name() = %q", src.Name())
	}
	if _, err := snapshots.Get(context.Background(), "hrportal:snapshot:goals"); err != nil {
		t.Errorf("snapshot key missing: %v", err)
	}
}

func TestCachedSource_ExpiredSnapshotReloads(t *testing.T) {
	inner := &countingSource{Source: NewStaticSource("goals", goals())}
	snapshots := NewMemorySnapshotStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	snapshots.now = func() time.Time { return now }
	src := NewCachedSource[goal](inner, snapshots, time.Minute, testutil.NewMockLogger())

	_, _ = src.Load(context.Background())
	now = now.Add(2 * time.Minute)
	_, _ = src.Load(context.Background())

	if inner.loads != 2 {
		t.Errorf("inner loads = %d, want 2", inner.loads)
	}
}

func TestCachedSource_StoreFailureFallsBack(t *testing.T) {
	log := testutil.NewMockLogger()
	inner := &countingSource{Source: NewStaticSource("goals", goals())}
	src := NewCachedSource[goal](inner, brokenStore{}, time.Minute, log)

	records, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 3 {
		t.Errorf("records = %d", len(records))
	}
	if _, ok := log.Find("snapshot read failed"); !ok {
		t.Error("expected read failure to be logged")
	}
	if _, ok := log.Find("snapshot store failed"); !ok {
		t.Error("expected store failure to be logged")
	}
}

func TestCachedSource_CorruptSnapshot(t *testing.T) {
	snapshots := NewMemorySnapshotStore()
	_ = snapshots.SetWithTTL(context.Background(), "hrportal:snapshot:goals", "{not json", 0)
	inner := &countingSource{Source: NewStaticSource("goals", goals())}
	src := NewCachedSource[goal](inner, snapshots, time.Minute, testutil.NewMockLogger())

	records, err := src.Load(context.Background())
	if err != nil || len(records) != 3 || inner.loads != 1 {
		t.Errorf("Load() = %d records, %v, loads %d", len(records), err, inner.loads)
	}
}

func TestCachedSource_InnerErrorPropagates(t *testing.T) {
	loadErr := errors.New("boom")
	src := NewCachedSource[goal](failingSource{err: loadErr}, NewMemorySnapshotStore(), time.Minute, testutil.NewMockLogger())
	if _, err := src.Load(context.Background()); !errors.Is(err, loadErr) {
		t.Errorf("Load() error = %v", err)
	}
}

func TestMemorySnapshotStore_Miss(t *testing.T) {
	if _, err := NewMemorySnapshotStore().Get(context.Background(), "absent"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() error = %v, want store.ErrNotFound", err)
	}
}
