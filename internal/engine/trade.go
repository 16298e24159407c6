package engine

import (
	"context"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

// SellStocks sells the requested quantity vector at current chart
// prices, then advances the sell track: one token moves from the track
// back into the market for a random good, stepping that good's price
// down. A track drained to the fluctuation threshold flips the room
// into a fluctuation round.
func (e *Engine) SellStocks(ctx context.Context, roomID, sender string, quantities [game.SlotCount]int) (*game.Arena, error) {
	if err := validateRequest(roomID, sender); err != nil {
		return nil, err
	}

	return e.withArena(ctx, "SELL_STOCKS", roomID, func(arena *game.Arena) error {
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
		if err := validateTradeQuantities(quantities, g.PriceLevel); err != nil {
			return err
		}
		for i := 1; i < game.SlotCount; i++ {
			if quantities[i] > player.Stocks[i] {
				return game.ErrInvalidSellStocks
			}
		}

		proceeds := 0
		for i := 1; i < game.SlotCount; i++ {
			proceeds += g.Market[i].Price() * quantities[i]
			player.Stocks[i] -= quantities[i]
			g.Market[i].Count += quantities[i]
		}
		player.Cash += proceeds
		player.State = game.ActionCompleted

		e.moveFromSellTrack(g)

		total := 0
		for i := 1; i < game.SlotCount; i++ {
			total += g.SellTrack[i]
		}
		if total == game.TrackFluctuationTotal {
			g.RoundPhase = game.PhaseStockFluctuation
			drainAndReseedSellTrack(g)
		}
		return nil
	})
}

// moveFromSellTrack moves one token from the sell track into the
// market for a uniformly chosen good with track balance, and steps that
// good's price down. An empty track moves nothing.
func (e *Engine) moveFromSellTrack(g *game.Game) {
	var available []int
	for i := 1; i < game.SlotCount; i++ {
		if g.SellTrack[i] > 0 {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return
	}

	idx := pickIndex(e.rng, available)
	g.SellTrack[idx]--
	g.Market[idx].Count++
	g.Market[idx].StepDown()
}

// drainAndReseedSellTrack empties the track into the pocket and
// refunds the starting vector out of the pocket, capped by what the
// pocket holds so no token is conjured.
func drainAndReseedSellTrack(g *game.Game) {
	for i := 0; i < game.SlotCount; i++ {
		g.Pocket[i] += g.SellTrack[i]
		g.SellTrack[i] = 0
	}
	for i := 0; i < game.SlotCount; i++ {
		mv := game.SellTrackStart[i]
		if mv > g.Pocket[i] {
			mv = g.Pocket[i]
		}
		g.Pocket[i] -= mv
		g.SellTrack[i] = mv
	}
}

// BuyStocks buys the requested quantity vector at current chart prices,
// then advances the buy track: one token moves from a random stocked
// good into the track; emptying a market slot steps its price up,
// otherwise a track entry reaching the step count does. A full track
// resolves a fluctuation round.
func (e *Engine) BuyStocks(ctx context.Context, roomID, sender string, quantities [game.SlotCount]int) (*game.Arena, error) {
	if err := validateRequest(roomID, sender); err != nil {
		return nil, err
	}

	return e.withArena(ctx, "BUY_STOCKS", roomID, func(arena *game.Arena) error {
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
		if err := validateTradeQuantities(quantities, g.PriceLevel); err != nil {
			return err
		}

		totalCost := 0
		for i := 1; i < game.SlotCount; i++ {
			if quantities[i] == 0 {
				continue
			}
			if g.Market[i].Count < quantities[i] {
				return game.NewPlayerMessage(roomID, sender, game.MsgStockNotAvailable)
			}
			totalCost += g.Market[i].Price() * quantities[i]
		}
		if player.Cash < totalCost {
			return game.NewPlayerMessage(roomID, sender, game.MsgInsufficientCash)
		}

		player.Cash -= totalCost
		for i := 1; i < game.SlotCount; i++ {
			player.Stocks[i] += quantities[i]
			player.CarryingStocks[i] += quantities[i]
			g.Market[i].Count -= quantities[i]
		}

		increased := e.moveToBuyTrack(g)
		if !increased {
			applyBuyTrackPriceStep(g)
		}

		total := 0
		for i := 0; i < game.SlotCount; i++ {
			total += g.BuyTrack[i]
		}
		if total == game.TrackFluctuationTotal {
			if err := e.resolveFluctuation(g); err != nil {
				return err
			}
		}
		return nil
	})
}

// moveToBuyTrack moves one token from a uniformly chosen stocked good
// into the buy track. Reports whether the move emptied the slot and
// already stepped its price up.
func (e *Engine) moveToBuyTrack(g *game.Game) bool {
	var available []int
	for i := 1; i < game.SlotCount; i++ {
		if g.Market[i].Count > 0 {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return false
	}

	idx := pickIndex(e.rng, available)
	g.BuyTrack[idx]++
	g.Market[idx].Count--
	if g.Market[idx].Count == 0 {
		g.Market[idx].StepUp()
		return true
	}
	return false
}

// applyBuyTrackPriceStep steps up the first good whose buy-track count
// sits exactly at the step threshold.
func applyBuyTrackPriceStep(g *game.Game) {
	for i := 1; i < game.SlotCount; i++ {
		if g.BuyTrack[i] == game.BuyTrackPriceStep {
			g.Market[i].StepUp()
			break
		}
	}
}

// validateTradeQuantities enforces the shared request shape for buy and
// sell: no negative entry, and a total in (0, cap] for the room's
// current price level.
func validateTradeQuantities(quantities [game.SlotCount]int, level int) error {
	if level < 0 || level > 9 {
		return game.ErrInvalidStockLevel
	}
	total := 0
	for i := 1; i < game.SlotCount; i++ {
		if quantities[i] < 0 {
			return game.ErrInvalidSellStocks
		}
		total += quantities[i]
	}
	if total <= 0 || total > game.TradeCap(level) {
		return game.ErrImpossibleStockCount
	}
	return nil
}
