package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

func TestAnnounceEventSetsCurrent(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(&scriptRand{})

	g := baseGame("r1", "ana")
	g.Round = 3
	g.EventSequence[3] = 9
	putGame(t, st, g)

	event, err := e.AnnounceEvent(ctx, "r1")
	if err != nil {
		t.Fatalf("Failed to announce: %v", err)
	}
	if event.ID != 9 {
		t.Errorf("Expected news id 9 for round 3, got %d", event.ID)
	}

	stored := loadGame(t, st, "r1")
	if stored.CurrentEvent == nil || stored.CurrentEvent.ID != 9 {
		t.Errorf("Expected the announced news persisted, got %+v", stored.CurrentEvent)
	}
}

func TestAnnounceEventRoundBounds(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(&scriptRand{})

	for _, round := range []int{0, 10, 11} {
		g := baseGame("r1", "ana")
		g.Round = round
		putGame(t, st, g)

		_, err := e.AnnounceEvent(ctx, "r1")
		if !errors.Is(err, game.ErrInvalidRound) {
			t.Errorf("Expected ErrInvalidRound at round %d, got %v", round, err)
		}
	}
}

func TestApplyEventRoundBounds(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(&scriptRand{})

	g := baseGame("r1", "ana")
	g.Round = 1
	putGame(t, st, g)

	_, err := e.ApplyEvent(ctx, "r1")
	if !errors.Is(err, game.ErrInvalidRound) {
		t.Errorf("Expected ErrInvalidRound at round 1, got %v", err)
	}
}

func TestApplyEventWithoutPendingNews(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(&scriptRand{})

	g := baseGame("r1", "ana")
	putGame(t, st, g)

	event, err := e.ApplyEvent(ctx, "r1")
	if err != nil {
		t.Fatalf("Expected a quiet no-op without pending news, got %v", err)
	}
	if event != nil {
		t.Errorf("Expected no applied news, got %+v", event)
	}

	stored := loadGame(t, st, "r1")
	if stored.InterestRate != game.StartingInterestRate {
		t.Errorf("Expected the rate untouched, got %d", stored.InterestRate)
	}
}

func TestApplyEventRateClamp(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(&scriptRand{})

	g := baseGame("r1", "ana")
	g.InterestRate = 9
	g.CurrentEvent = &game.EconomicEvent{ID: 1, Group: game.GroupNone, Value: 2}
	putGame(t, st, g)

	arena := mustApply(t, e, ctx, "r1")
	if arena.InterestRate != game.MaxInterestRate {
		t.Errorf("Expected the rate clamped at %d, got %d", game.MaxInterestRate, arena.InterestRate)
	}

	g = baseGame("r2", "ana")
	g.InterestRate = 2
	g.CurrentEvent = &game.EconomicEvent{ID: 2, Group: game.GroupNone, Value: -2}
	putGame(t, st, g)

	arena = mustApply(t, e, ctx, "r2")
	if arena.InterestRate != game.MinInterestRate {
		t.Errorf("Expected the rate clamped at %d, got %d", game.MinInterestRate, arena.InterestRate)
	}
}

func TestApplyEventGroupShift(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(&scriptRand{})

	g := baseGame("r1", "ana")
	for i := 1; i < game.SlotCount; i++ {
		g.Market[i].Coord = game.Coordinate{Row: 6, Col: 3}
	}
	g.CurrentEvent = &game.EconomicEvent{ID: 7, Group: game.GroupClothes, Value: 1}
	putGame(t, st, g)

	applied := mustApply(t, e, ctx, "r1")
	for i := 1; i < game.SlotCount; i++ {
		want := 6
		if i == 4 || i == 5 {
			want = 5
		}
		if applied.Market[i].Coord.Row != want {
			t.Errorf("Expected good %d at row %d, got %d", i, want, applied.Market[i].Coord.Row)
		}
	}

	g = baseGame("r2", "ana")
	for i := 1; i < game.SlotCount; i++ {
		g.Market[i].Coord = game.Coordinate{Row: 6, Col: 3}
	}
	g.CurrentEvent = &game.EconomicEvent{ID: 20, Group: game.GroupAll, Value: -2}
	putGame(t, st, g)

	applied = mustApply(t, e, ctx, "r2")
	for i := 1; i < game.SlotCount; i++ {
		if applied.Market[i].Coord.Row != 7 {
			t.Errorf("Expected good %d stepped down to row 7, got %d", i, applied.Market[i].Coord.Row)
		}
	}
}

func TestApplyEventUnknownGroupKeepsRate(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(&scriptRand{})

	g := baseGame("r1", "ana")
	g.CurrentEvent = &game.EconomicEvent{ID: 99, Group: "BOGUS", Value: 1}
	putGame(t, st, g)

	event, err := e.ApplyEvent(ctx, "r1")
	if err != nil {
		t.Fatalf("Expected the unknown group swallowed, got %v", err)
	}
	if event == nil {
		t.Fatal("Expected the news still reported as applied")
	}

	stored := loadGame(t, st, "r1")
	if stored.InterestRate != game.StartingInterestRate+1 {
		t.Errorf("Expected the rate change preserved, got %d", stored.InterestRate)
	}
}

func TestApplyEventKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(&scriptRand{})

	g := baseGame("r1", "ana")
	g.CurrentEvent = &game.EconomicEvent{ID: 21, Group: game.GroupNone, Value: 1}
	putGame(t, st, g)

	mustApply(t, e, ctx, "r1")

	stored := loadGame(t, st, "r1")
	if stored.CurrentEvent == nil || stored.CurrentEvent.ID != 21 {
		t.Errorf("Expected the applied news kept on the room, got %+v", stored.CurrentEvent)
	}
}

func mustApply(t *testing.T, e *Engine, ctx context.Context, roomID string) *game.Game {
	t.Helper()
	if _, err := e.ApplyEvent(ctx, roomID); err != nil {
		t.Fatalf("Failed to apply news in %s: %v", roomID, err)
	}
	arena, err := e.loadArena(ctx, roomID)
	if err != nil {
		t.Fatalf("Failed to reload %s: %v", roomID, err)
	}
	return arena.Game
}
