package engine

import (
	"context"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

// MovePlayer overwrites a player's position, facing and action toggle.
// No validation beyond player existence; it shares the room exclusion
// scope so moves never interleave with a committing trade.
func (e *Engine) MovePlayer(ctx context.Context, roomID, sender string, position, direction [3]float64, actionToggle bool) (*game.Arena, error) {
	if err := validateRequest(roomID, sender); err != nil {
		return nil, err
	}

	return e.withArena(ctx, "MOVE_PLAYER", roomID, func(arena *game.Arena) error {
		g := arena.Game
		if g == nil {
			return game.ErrArenaNotFound
		}
		player, err := g.FindPlayer(sender)
		if err != nil {
			return err
		}

		player.Position = position
		player.Direction = direction
		player.ActionToggle = actionToggle
		return nil
	})
}
