package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goldrush-games/arena-server/internal/domain/game"
	"github.com/goldrush-games/arena-server/internal/infra/store"
	"github.com/goldrush-games/arena-server/internal/platform/logger"
	"github.com/goldrush-games/arena-server/internal/platform/metrics"
)

// Engine executes every room operation through one
// acquire/load/mutate/persist/release path. Rooms are independent;
// operations on the same room are serialized.
type Engine struct {
	store  store.Store
	logger *logger.Logger
	rng    Rand

	// DistributedLock additionally takes the store's advisory lock on
	// every operation. Required when more than one engine instance
	// serves the same store.
	DistributedLock bool

	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

// NewEngine wires the engine to its store, logger and random source.
func NewEngine(st store.Store, log *logger.Logger, rng Rand) *Engine {
	return &Engine{
		store:  st,
		logger: log,
		rng:    rng,
		rooms:  make(map[string]*sync.Mutex),
	}
}

// roomLock returns the in-process mutex owning roomID's exclusion scope.
// Entries are never evicted: a mutex must outlive any goroutine that may
// still block on it, so the map holds one pointer per room id seen this
// process lifetime, even after the room itself has expired from the store.
func (e *Engine) roomLock(roomID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.rooms[roomID]
	if !ok {
		m = &sync.Mutex{}
		e.rooms[roomID] = m
	}
	return m
}

// withArena is the funnel every mutating operation goes through: lock
// the room, load its arena, apply fn, and persist only when fn
// succeeds. A failing fn leaves the stored state untouched because fn
// only ever mutates the freshly decoded copy.
func (e *Engine) withArena(ctx context.Context, op, roomID string, fn func(*game.Arena) error) (*game.Arena, error) {
	if roomID == "" {
		return nil, game.ErrRequest
	}

	start := time.Now()
	room := e.roomLock(roomID)
	room.Lock()
	defer room.Unlock()

	key := store.RoomKey(roomID)
	if e.DistributedLock {
		if err := e.store.Acquire(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to lock room %s: %w", roomID, err)
		}
		defer func() {
			if err := e.store.Release(ctx, key); err != nil {
				e.logger.Error("Failed to release room lock " + roomID + ": " + err.Error())
			}
		}()
	}
	lockWait := time.Since(start)

	metrics.Get().RecordStoreRead()
	arena, err := e.store.Get(ctx, key)
	if err != nil {
		metrics.Get().RecordOpError()
		return nil, fmt.Errorf("failed to load room %s: %w", roomID, err)
	}
	if arena == nil {
		metrics.Get().RecordOpError()
		return nil, game.ErrArenaNotFound
	}

	if err := fn(arena); err != nil {
		if game.IsPlayerMessage(err) {
			metrics.Get().RecordOpSoftError()
		} else {
			metrics.Get().RecordOpError()
		}
		return nil, err
	}

	err = e.store.Put(ctx, key, arena)
	metrics.Get().RecordStoreWrite(err)
	if err != nil {
		return nil, fmt.Errorf("failed to persist room %s: %w", roomID, err)
	}

	metrics.Get().RecordOp(time.Since(start), lockWait)
	e.logger.Op(op, roomID, "committed")
	return arena, nil
}

// loadArena reads a room without the exclusion scope, for read-only views.
func (e *Engine) loadArena(ctx context.Context, roomID string) (*game.Arena, error) {
	if roomID == "" {
		return nil, game.ErrRequest
	}
	metrics.Get().RecordStoreRead()
	arena, err := e.store.Get(ctx, store.RoomKey(roomID))
	if err != nil {
		return nil, fmt.Errorf("failed to load room %s: %w", roomID, err)
	}
	if arena == nil {
		return nil, game.ErrArenaNotFound
	}
	return arena, nil
}

// CreateRoom registers an empty arena for a room id. The lobby calls
// this before players join; initialization later attaches the game.
func (e *Engine) CreateRoom(ctx context.Context, roomID string) error {
	if roomID == "" {
		return game.ErrRequest
	}
	arena := &game.Arena{RoomID: roomID, Message: "ROOM_CREATED"}
	err := e.store.Put(ctx, store.RoomKey(roomID), arena)
	metrics.Get().RecordStoreWrite(err)
	if err != nil {
		return fmt.Errorf("failed to create room %s: %w", roomID, err)
	}
	e.logger.Op("CREATE_ROOM", roomID, "registered")
	return nil
}

// validateRequest rejects calls missing their addressing fields.
func validateRequest(roomID, sender string) error {
	if roomID == "" || sender == "" {
		return game.ErrRequest
	}
	return nil
}
