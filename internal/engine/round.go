package engine

import (
	"context"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

// AdvanceRound moves a room into its next round: players get their
// action back, a fluctuation phase settles into NORMAL, and the game
// finishes after the final round. The round scheduler calls this
// between ApplyEvent and AnnounceEvent.
func (e *Engine) AdvanceRound(ctx context.Context, roomID string) (*game.Arena, error) {
	return e.withArena(ctx, "ADVANCE_ROUND", roomID, func(arena *game.Arena) error {
		g := arena.Game
		if g == nil {
			return game.ErrArenaNotFound
		}
		if g.Round >= game.FinalRound {
			g.Status = game.StatusFinished
			g.Message = "GAME_FINISHED"
			return nil
		}

		g.Round++
		g.RoundPhase = game.PhaseNormal
		for _, p := range g.Players {
			p.State = game.ActionNotStarted
			p.CarryingStocks = [game.SlotCount]int{}
			p.CarryingGolds = 0
		}
		return nil
	})
}
