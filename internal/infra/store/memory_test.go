package store

import (
	"context"
	"testing"
	"time"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

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

func TestMemoryStoreTTLRefresh(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	now := time.Unix(1_000_000, 0)
	s.Now = func() time.Time { return now }

	arena := &game.Arena{RoomID: "r1"}
	if err := s.Put(ctx, RoomKey("r1"), arena); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}
	if ttl, ok := s.TTLRemaining(RoomKey("r1")); !ok || ttl != DefaultTTL {
		t.Errorf("Expected the default TTL on first write, got %v %v", ttl, ok)
	}

	// A rewrite 100 seconds later keeps the remaining TTL plus one second.
	now = now.Add(100 * time.Second)
	if err := s.Put(ctx, RoomKey("r1"), arena); err != nil {
		t.Fatalf("Failed to rewrite: %v", err)
	}
	want := DefaultTTL - 100*time.Second + time.Second
	if ttl, ok := s.TTLRemaining(RoomKey("r1")); !ok || ttl != want {
		t.Errorf("Expected TTL %v after the refresh, got %v %v", want, ttl, ok)
	}

	// A write after expiry starts over at the default.
	now = now.Add(2 * DefaultTTL)
	if err := s.Put(ctx, RoomKey("r1"), arena); err != nil {
		t.Fatalf("Failed to rewrite: %v", err)
	}
	if ttl, ok := s.TTLRemaining(RoomKey("r1")); !ok || ttl != DefaultTTL {
		t.Errorf("Expected the default TTL after expiry, got %v %v", ttl, ok)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	now := time.Unix(1_000_000, 0)
	s.Now = func() time.Time { return now }

	if err := s.Put(ctx, RoomKey("r1"), &game.Arena{RoomID: "r1"}); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}

	now = now.Add(DefaultTTL + time.Second)
	got, err := s.Get(ctx, RoomKey("r1"))
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got != nil {
		t.Errorf("Expected the expired arena hidden, got %+v", got)
	}
	if _, ok := s.TTLRemaining(RoomKey("r1")); ok {
		t.Error("Expected no TTL left after expiry")
	}
}

func TestMemoryStoreListByPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	now := time.Unix(1_000_000, 0)
	s.Now = func() time.Time { return now }

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

	// Expired entries drop out of the listing.
	now = now.Add(DefaultTTL + time.Second)
	arenas, err = s.ListByPrefix(ctx, RoomPrefix)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(arenas) != 0 {
		t.Errorf("Expected no live rooms after expiry, got %d", len(arenas))
	}
}

func TestMemoryStoreAdvisoryLock(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Acquire(ctx, RoomKey("r1")); err != nil {
		t.Fatalf("Failed to acquire: %v", err)
	}

	// A second acquire blocks until the context gives up.
	timed, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := s.Acquire(timed, RoomKey("r1")); err == nil {
		t.Error("Expected the held lock to block the second acquire")
	}

	if err := s.Release(ctx, RoomKey("r1")); err != nil {
		t.Fatalf("Failed to release: %v", err)
	}
	if err := s.Acquire(ctx, RoomKey("r1")); err != nil {
		t.Errorf("Expected the released lock reacquirable, got %v", err)
	}

	if err := s.Release(ctx, RoomKey("other")); err == nil {
		t.Error("Expected releasing an unheld lock to fail")
	}
}
