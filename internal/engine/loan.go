package engine

import (
	"context"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

// loanRanges holds the [min,max] cash range per eligibility tier.
var loanRanges = [3][2]int{{50, 100}, {150, 300}, {500, 1000}}

// loanTier maps a price level onto a lending tier.
func loanTier(priceLevel int) (int, error) {
	switch {
	case priceLevel < 0 || priceLevel > 9:
		return 0, game.ErrInvalidStockLevel
	case priceLevel <= 2:
		return 0, nil
	case priceLevel <= 5:
		return 1, nil
	default:
		return 2, nil
	}
}

// PreLoan checks eligibility and returns the cash range the player may
// borrow within at the room's current price level.
func (e *Engine) PreLoan(ctx context.Context, roomID, sender string) (min, max int, err error) {
	if err := validateRequest(roomID, sender); err != nil {
		return 0, 0, err
	}

	arena, err := e.loadArena(ctx, roomID)
	if err != nil {
		return 0, 0, err
	}
	g := arena.Game
	if g == nil {
		return 0, 0, game.ErrArenaNotFound
	}
	player, err := g.FindPlayer(sender)
	if err != nil {
		return 0, 0, err
	}
	if player.HasLoan {
		return 0, 0, game.NewPlayerMessage(roomID, sender, game.MsgLoanAlreadyTaken)
	}

	tier, err := loanTier(g.PriceLevel)
	if err != nil {
		return 0, 0, err
	}
	return loanRanges[tier][0], loanRanges[tier][1], nil
}

// TakeLoan lends amount to the player. Interest is computed at the
// room's current rate (floored integer percent) and tracked, not paid
// out; the principal lands in the player's cash.
func (e *Engine) TakeLoan(ctx context.Context, roomID, sender string, amount int) (*game.Arena, error) {
	if err := validateRequest(roomID, sender); err != nil {
		return nil, err
	}

	return e.withArena(ctx, "TAKE_LOAN", roomID, func(arena *game.Arena) error {
		g := arena.Game
		if g == nil {
			return game.ErrArenaNotFound
		}
		player, err := g.FindPlayer(sender)
		if err != nil {
			return err
		}
		if player.HasLoan {
			return game.NewPlayerMessage(roomID, sender, game.MsgLoanAlreadyTaken)
		}

		tier, err := loanTier(g.PriceLevel)
		if err != nil {
			return err
		}
		if amount < loanRanges[tier][0] || amount > loanRanges[tier][1] {
			return game.NewPlayerMessage(roomID, sender, game.MsgAmountOutOfRange)
		}

		interest := amount * g.InterestRate / 100

		player.HasLoan = true
		player.LoanPrincipal = amount
		player.LoanInterest = interest
		player.TotalDebt = amount
		player.Cash += amount
		return nil
	})
}

// RepayLoan pays amount off the player's debt out of their cash.
func (e *Engine) RepayLoan(ctx context.Context, roomID, sender string, amount int) (*game.Arena, error) {
	if err := validateRequest(roomID, sender); err != nil {
		return nil, err
	}

	return e.withArena(ctx, "REPAY_LOAN", roomID, func(arena *game.Arena) error {
		g := arena.Game
		if g == nil {
			return game.ErrArenaNotFound
		}
		player, err := g.FindPlayer(sender)
		if err != nil {
			return err
		}

		if amount > player.TotalDebt {
			return game.NewPlayerMessage(roomID, sender, game.MsgAmountExceedsDebt)
		}
		if amount > player.Cash {
			return game.NewPlayerMessage(roomID, sender, game.MsgAmountExceedsCash)
		}

		player.Repay(amount)
		return nil
	})
}
