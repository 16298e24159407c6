package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("Failed to initialize sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStore(db, "test-holder")
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	arena := &game.Arena{RoomID: "r1", Message: "ROOM_CREATED"}
	if err := s.Put(ctx, RoomKey("r1"), arena); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}

	got, err := s.Get(ctx, RoomKey("r1"))
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got == nil || got.RoomID != "r1" || got.Message != "ROOM_CREATED" {
		t.Errorf("Expected the stored arena back, got %+v", got)
	}

	if got, err := s.Get(ctx, RoomKey("missing")); err != nil || got != nil {
		t.Errorf("Expected (nil, nil) for an absent key, got %+v %v", got, err)
	}

	if err := s.Delete(ctx, RoomKey("r1")); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if got, _ := s.Get(ctx, RoomKey("r1")); got != nil {
		t.Errorf("Expected the deleted arena gone, got %+v", got)
	}
}

func TestSQLiteStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	now := time.Unix(1_000_000, 0)
	s.Now = func() time.Time { return now }

	if err := s.Put(ctx, RoomKey("r1"), &game.Arena{RoomID: "r1"}); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}

	// Still visible just before expiry.
	now = now.Add(DefaultTTL - time.Second)
	if got, _ := s.Get(ctx, RoomKey("r1")); got == nil {
		t.Error("Expected the arena still live before expiry")
	}

	now = now.Add(2 * time.Second)
	if got, _ := s.Get(ctx, RoomKey("r1")); got != nil {
		t.Errorf("Expected the expired arena hidden, got %+v", got)
	}
}

func TestSQLiteStoreTTLRefresh(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	now := time.Unix(1_000_000, 0)
	s.Now = func() time.Time { return now }

	if err := s.Put(ctx, RoomKey("r1"), &game.Arena{RoomID: "r1"}); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}

	// A rewrite 100 seconds in carries the remaining TTL plus a second:
	// the key outlives the original deadline by exactly that second.
	now = now.Add(100 * time.Second)
	if err := s.Put(ctx, RoomKey("r1"), &game.Arena{RoomID: "r1"}); err != nil {
		t.Fatalf("Failed to rewrite: %v", err)
	}

	now = time.Unix(1_000_000, 0).Add(DefaultTTL)
	if got, _ := s.Get(ctx, RoomKey("r1")); got == nil {
		t.Error("Expected the refreshed arena to outlive the original deadline")
	}

	now = now.Add(2 * time.Second)
	if got, _ := s.Get(ctx, RoomKey("r1")); got != nil {
		t.Errorf("Expected the arena expired past the refreshed deadline, got %+v", got)
	}
}

func TestSQLiteStoreListByPrefix(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	for _, id := range []string{"a", "b"} {
		if err := s.Put(ctx, RoomKey(id), &game.Arena{RoomID: id}); err != nil {
			t.Fatalf("Failed to put %s: %v", id, err)
		}
	}
	if err := s.Put(ctx, "other-key", &game.Arena{RoomID: "x"}); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}

	arenas, err := s.ListByPrefix(ctx, RoomPrefix)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(arenas) != 2 {
		t.Errorf("Expected 2 rooms under the prefix, got %d", len(arenas))
	}
}

func TestSQLiteStoreAdvisoryLock(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if err := s.Acquire(ctx, RoomKey("r1")); err != nil {
		t.Fatalf("Failed to acquire: %v", err)
	}

	other := NewSQLiteStore(s.db, "other-holder")
	timed, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := other.Acquire(timed, RoomKey("r1")); err == nil {
		t.Error("Expected the held lock to block a second holder")
	}

	if err := s.Release(ctx, RoomKey("r1")); err != nil {
		t.Fatalf("Failed to release: %v", err)
	}
	if err := other.Acquire(ctx, RoomKey("r1")); err != nil {
		t.Errorf("Expected the released lock acquirable, got %v", err)
	}

	// The first holder cannot release someone else's lock.
	if err := s.Release(ctx, RoomKey("r1")); err == nil {
		t.Error("Expected releasing another holder's lock to fail")
	}
}

func TestSQLiteStoreStaleLockSteal(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	now := time.Unix(1_000_000, 0)
	s.Now = func() time.Time { return now }
	if err := s.Acquire(ctx, RoomKey("r1")); err != nil {
		t.Fatalf("Failed to acquire: %v", err)
	}

	// A holder that went silent for over a minute loses the lock.
	other := NewSQLiteStore(s.db, "other-holder")
	other.Now = func() time.Time { return now.Add(61 * time.Second) }
	if err := other.Acquire(ctx, RoomKey("r1")); err != nil {
		t.Errorf("Expected the stale lock stolen, got %v", err)
	}
}
