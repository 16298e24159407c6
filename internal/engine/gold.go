package engine

import (
	"context"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

// PurchaseGold buys count gold bars at the current gold price. The
// purchase pushes one market token onto the gold-buy track for a random
// stocked good; emptying that good's market slot or stacking its track
// entry to the step count raises its price. A full track drains into
// the pocket and flips the room into a fluctuation round.
func (e *Engine) PurchaseGold(ctx context.Context, roomID, sender string, count int) (*game.Arena, error) {
	if err := validateRequest(roomID, sender); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, game.ErrRequest
	}

	return e.withArena(ctx, "PURCHASE_GOLD", roomID, func(arena *game.Arena) error {
		g := arena.Game
		if g == nil {
			return game.ErrArenaNotFound
		}
		player, err := g.FindPlayer(sender)
		if err != nil {
			return err
		}
		if player.State == game.ActionCompleted {
			return game.ErrPlayerState
		}

		totalCost := g.GoldPrice * count
		if player.Cash < totalCost {
			return game.NewPlayerMessage(roomID, sender, game.MsgOutOfCash)
		}

		selected := e.moveToGoldTrack(g)

		g.GoldPriceIncreaseCnt += count
		player.Cash -= totalCost
		player.GoldOwned += count
		player.CarryingGolds = count
		player.State = game.ActionCompleted

		if selected > 0 {
			if g.GoldBuyTrack[selected] == game.BuyTrackPriceStep || g.Market[selected].Count == 0 {
				g.Market[selected].StepUp()
			}
		}

		total := 0
		for i := 1; i < game.SlotCount; i++ {
			total += g.GoldBuyTrack[i]
		}
		if total == game.TrackFluctuationTotal {
			for i := 0; i < game.SlotCount; i++ {
				g.Pocket[i] += g.GoldBuyTrack[i]
				g.GoldBuyTrack[i] = 0
			}
			g.RoundPhase = game.PhaseStockFluctuation
		}
		return nil
	})
}

// moveToGoldTrack moves one token from a uniformly chosen stocked good
// onto the gold-buy track. Returns the chosen good, or 0 when the
// market is bare.
func (e *Engine) moveToGoldTrack(g *game.Game) int {
	var available []int
	for i := 1; i < game.SlotCount; i++ {
		if g.Market[i].Count > 0 {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return 0
	}

	idx := pickIndex(e.rng, available)
	g.GoldBuyTrack[idx]++
	g.Market[idx].Count--
	return idx
}
