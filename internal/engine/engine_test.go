package engine

import (
	"context"
	"testing"

	"github.com/goldrush-games/arena-server/internal/domain/game"
	"github.com/goldrush-games/arena-server/internal/infra/store"
	"github.com/goldrush-games/arena-server/internal/platform/logger"
)

// cycleRand deals 0,1,2,... modulo n. Deterministic without pinning
// tests to a specific math/rand sequence.
type cycleRand struct {
	next int
}

func (r *cycleRand) Intn(n int) int {
	v := r.next % n
	r.next++
	return v
}

func (r *cycleRand) Shuffle(n int, swap func(i, j int)) {}

// scriptRand replays an exact pick sequence, then falls back to zero.
type scriptRand struct {
	picks []int
	pos   int
}

func (r *scriptRand) Intn(n int) int {
	if r.pos >= len(r.picks) {
		return 0
	}
	v := r.picks[r.pos] % n
	r.pos++
	return v
}

func (r *scriptRand) Shuffle(n int, swap func(i, j int)) {}

func newTestEngine(rng Rand) (*Engine, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return NewEngine(st, logger.NewLogger(), rng), st
}

// putGame seeds the store with a prepared game state.
func putGame(t *testing.T, st *store.MemoryStore, g *game.Game) {
	t.Helper()
	arena := &game.Arena{RoomID: g.RoomID, Game: g}
	if err := st.Put(context.Background(), store.RoomKey(g.RoomID), arena); err != nil {
		t.Fatalf("Failed to seed room %s: %v", g.RoomID, err)
	}
}

// loadGame re-reads a room's game from the store.
func loadGame(t *testing.T, st *store.MemoryStore, roomID string) *game.Game {
	t.Helper()
	arena, err := st.Get(context.Background(), store.RoomKey(roomID))
	if err != nil {
		t.Fatalf("Failed to load room %s: %v", roomID, err)
	}
	if arena == nil || arena.Game == nil {
		t.Fatalf("Expected a stored game for room %s", roomID)
	}
	return arena.Game
}

// baseGame builds a minimal in-play room with two participants and a
// uniformly stocked market at the opening coordinate.
func baseGame(roomID string, nicknames ...string) *game.Game {
	g := &game.Game{
		RoomID:       roomID,
		Status:       game.StatusInGame,
		Round:        2,
		RoundPhase:   game.PhaseNormal,
		InterestRate: game.StartingInterestRate,
		GoldPrice:    game.StartingGoldPrice,
		Pocket:       [game.SlotCount]int{1, 10, 10, 10, 10, 10},
	}
	g.Market[0] = game.StockSlot{Coord: game.Coordinate{Row: 0, Col: 0}}
	for i := 1; i < game.SlotCount; i++ {
		g.Market[i] = game.StockSlot{Count: 4, Coord: game.Coordinate{Row: 12, Col: 3}}
	}
	for _, nickname := range nicknames {
		g.Players = append(g.Players, game.NewPlayer(nickname, 0, [game.SlotCount]int{}))
	}
	return g
}
