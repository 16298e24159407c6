package engine

import (
	"context"
	"fmt"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

// AnnounceEvent publishes the news drawn for the current round. The
// entry takes effect one round later, via ApplyEvent. Valid for rounds
// 1 through 9.
func (e *Engine) AnnounceEvent(ctx context.Context, roomID string) (*game.EconomicEvent, error) {
	var announced *game.EconomicEvent

	_, err := e.withArena(ctx, "ANNOUNCE_EVENT", roomID, func(arena *game.Arena) error {
		g := arena.Game
		if g == nil {
			return game.ErrArenaNotFound
		}
		if g.Round < 1 || g.Round > eventRounds {
			return game.ErrInvalidRound
		}

		id := g.EventSequence[g.Round]
		event, ok := game.EventByID(id)
		if !ok {
			return fmt.Errorf("round %d references news id %d: %w", g.Round, id, game.ErrEventNotFound)
		}

		g.CurrentEvent = &event
		announced = &event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return announced, nil
}

// ApplyEvent folds the previously announced news into the room: the
// interest rate shifts by the event value (clamped), and every market
// slot in the affected group steps one lattice row in the value's
// direction. Valid for rounds 2 through 10. No pending news is a
// no-op, not an error.
func (e *Engine) ApplyEvent(ctx context.Context, roomID string) (*game.EconomicEvent, error) {
	var applied *game.EconomicEvent

	_, err := e.withArena(ctx, "APPLY_EVENT", roomID, func(arena *game.Arena) error {
		g := arena.Game
		if g == nil {
			return game.ErrArenaNotFound
		}
		if g.Round < 2 || g.Round > game.FinalRound {
			return game.ErrInvalidRound
		}

		event := g.CurrentEvent
		if event == nil {
			e.logger.Warn("No pending news to apply in room " + roomID)
			return nil
		}

		rate := g.InterestRate + event.Value
		if rate < game.MinInterestRate {
			rate = game.MinInterestRate
		}
		if rate > game.MaxInterestRate {
			rate = game.MaxInterestRate
		}
		g.InterestRate = rate

		// An unknown group must not undo the rate change above, so it
		// is logged and swallowed rather than propagated.
		if err := applyGroupPriceShift(g, event.Group, event.Value); err != nil {
			e.logger.Error("News price shift skipped in room " + roomID + ": " + err.Error())
		}

		applied = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

// applyGroupPriceShift steps the affected slots one row. The shift is a
// single step regardless of the event magnitude; only the sign counts.
func applyGroupPriceShift(g *game.Game, group game.StockGroup, value int) error {
	shift := func(slot *game.StockSlot) {
		if value > 0 {
			slot.StepUp()
		} else if value < 0 {
			slot.StepDown()
		}
	}

	switch group {
	case game.GroupAll:
		for i := 1; i < game.SlotCount; i++ {
			shift(&g.Market[i])
		}
	case game.GroupFood:
		shift(&g.Market[1])
		shift(&g.Market[2])
	case game.GroupGift:
		shift(&g.Market[3])
	case game.GroupClothes:
		shift(&g.Market[4])
		shift(&g.Market[5])
	case game.GroupNone:
		// Rate-only news.
	default:
		return fmt.Errorf("group %q: %w", group, game.ErrInvalidStockGroup)
	}
	return nil
}
