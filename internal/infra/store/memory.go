package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store. It backs tests and single-node
// deployments that do not need durable rooms.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	locks   map[string]chan struct{}

	// Now is the clock used for TTL bookkeeping; tests override it.
	Now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		locks:   make(map[string]chan struct{}),
		Now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*game.Arena, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.After(s.Now()) {
		delete(s.entries, key)
		return nil, nil
	}

	var arena game.Arena
	if err := json.Unmarshal(entry.payload, &arena); err != nil {
		return nil, fmt.Errorf("failed to decode arena %s: %w", key, err)
	}
	return &arena, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, arena *game.Arena) error {
	payload, err := json.Marshal(arena)
	if err != nil {
		return fmt.Errorf("failed to encode arena %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	var prevExpiry time.Time
	if entry, ok := s.entries[key]; ok {
		prevExpiry = entry.expiresAt
	}
	s.entries[key] = &memoryEntry{
		payload:   payload,
		expiresAt: now.Add(nextTTL(prevExpiry, now)),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) ListByPrefix(ctx context.Context, prefix string) ([]*game.Arena, error) {
	s.mu.Lock()
	now := s.Now()
	var payloads [][]byte
	for key, entry := range s.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if !entry.expiresAt.After(now) {
			delete(s.entries, key)
			continue
		}
		payloads = append(payloads, entry.payload)
	}
	s.mu.Unlock()

	arenas := make([]*game.Arena, 0, len(payloads))
	for _, payload := range payloads {
		var arena game.Arena
		if err := json.Unmarshal(payload, &arena); err != nil {
			return nil, fmt.Errorf("failed to decode arena: %w", err)
		}
		arenas = append(arenas, &arena)
	}
	return arenas, nil
}

func (s *MemoryStore) Acquire(ctx context.Context, key string) error {
	s.mu.Lock()
	sem, ok := s.locks[key]
	if !ok {
		sem = make(chan struct{}, 1)
		s.locks[key] = sem
	}
	s.mu.Unlock()

	select {
	case sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *MemoryStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	sem, ok := s.locks[key]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("release of unheld lock %s", key)
	}
	select {
	case <-sem:
		return nil
	default:
		return fmt.Errorf("release of unheld lock %s", key)
	}
}

// TTLRemaining reports the live TTL for a key. Used by tests to pin the
// refresh rule down.
func (s *MemoryStore) TTLRemaining(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return 0, false
	}
	remaining := entry.expiresAt.Sub(s.Now())
	if remaining <= 0 {
		return 0, false
	}
	return remaining, true
}
