// Package store provides the persistence layer for arenas.
// An arena is stored as one keyed JSON document with a time-to-live and
// an advisory per-key lock; this package implements the repository
// pattern to keep the domain pure.
package store

import (
	"context"
	"time"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

// RoomPrefix namespaces arena keys in the store.
const RoomPrefix = "room"

// DefaultTTL is applied when a key has no live expiry.
const DefaultTTL = 3600 * time.Second

// Store is the keyed arena persistence contract.
//
// Put refreshes the key's TTL on every write: a key with no live expiry
// gets DefaultTTL, otherwise the remaining TTL plus one second. Unused
// rooms therefore age out while active ones creep forward. Get returns
// (nil, nil) for an absent or expired key.
type Store interface {
	Get(ctx context.Context, key string) (*game.Arena, error)
	Put(ctx context.Context, key string, arena *game.Arena) error
	Delete(ctx context.Context, key string) error
	ListByPrefix(ctx context.Context, prefix string) ([]*game.Arena, error)

	// Acquire/Release bound a room's exclusion scope across engine
	// instances. Acquire blocks until the key's lock is free or the
	// context is done.
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

// nextTTL implements the refresh rule shared by the implementations.
func nextTTL(expiresAt time.Time, now time.Time) time.Duration {
	if expiresAt.IsZero() || !expiresAt.After(now) {
		return DefaultTTL
	}
	return expiresAt.Sub(now) + time.Second
}

// RoomKey builds the store key for a room id.
func RoomKey(roomID string) string {
	return RoomPrefix + roomID
}
