package engine

import (
	"github.com/goldrush-games/arena-server/internal/domain/game"
)

// resolveFluctuation redistributes pocket tokens into the market and
// recomputes every good's lattice coordinate. The number of tokens
// drawn depends on the room's price level; black-token draws bias the
// gold price. The room's price level only ever moves up through this
// path, even when the resulting coordinates sit in a lower band.
func (e *Engine) resolveFluctuation(g *game.Game) error {
	drawCount := game.FluctuationDraws(g.PriceLevel)

	var drawn [game.SlotCount]int
	var available []int
	for i := 0; i < game.SlotCount; i++ {
		if g.Pocket[i] > 0 {
			available = append(available, i)
		}
	}

	for n := 0; n < drawCount; n++ {
		if len(available) == 0 {
			return game.ErrInsufficientStock
		}
		pos := e.rng.Intn(len(available))
		idx := available[pos]
		g.Pocket[idx]--
		drawn[idx]++
		if g.Pocket[idx] == 0 {
			available = append(available[:pos], available[pos+1:]...)
		}
	}

	black := drawn[0]
	if black < 0 || black > 12 {
		return game.ErrInvalidBlackToken
	}

	// Gold marker: one step per black token drawn, plus the bonus for
	// every full three golds bought since the last fluctuation. The
	// purchase counter resets either way.
	if black > 0 {
		g.GoldPrice += black + g.GoldPriceIncreaseCnt/3
	}
	g.GoldPriceIncreaseCnt = 0

	// A single black token goes back into the pocket and counts as zero.
	if black == 1 {
		g.Pocket[0]++
		drawn[0] = 0
	}

	for i := 1; i < game.SlotCount; i++ {
		diff := drawn[i] - drawn[0]
		if diff < -6 {
			return game.ErrInvalidBlackToken
		}
		if diff > 12 {
			return game.ErrExceedsDiffRange
		}

		slot := &g.Market[i]
		switch {
		case diff >= 0 && diff <= 6:
			dr, dc := game.DiffDelta(diff)
			slot.Shift(dr, dc)
		case diff >= 7:
			dr, dc := game.DiffDelta(6)
			slot.Shift(dr, dc)
			for n := 0; n < diff-6; n++ {
				if slot.Coord.Row == 0 {
					break
				}
				slot.Coord.Row--
			}
		}
		// diff in [-6,-1]: a black-heavy draw leaves the marker alone.

		slot.Count += drawn[i]
		if slot.Count == 0 {
			slot.StepUp()
		}

		if level := slot.Level(); level > g.PriceLevel {
			g.PriceLevel = level
		}
	}

	return nil
}
