package engine

import (
	"context"

	"github.com/goldrush-games/arena-server/internal/domain/game"
	"github.com/goldrush-games/arena-server/internal/infra/store"
	"github.com/goldrush-games/arena-server/internal/platform/metrics"
)

// PlayerSnapshot is the per-player wallet view sent back after an
// exchange action.
type PlayerSnapshot struct {
	Nickname       string              `json:"nickname"`
	Cash           int                 `json:"cash"`
	Stocks         [game.SlotCount]int `json:"stocks"`
	GoldOwned      int                 `json:"gold_owned"`
	CarryingStocks [game.SlotCount]int `json:"carrying_stocks"`
	CarryingGolds  int                 `json:"carrying_golds"`
	HasLoan        bool                `json:"has_loan"`
	LoanPrincipal  int                 `json:"loan_principal"`
	LoanInterest   int                 `json:"loan_interest"`
	TotalDebt      int                 `json:"total_debt"`
	State          game.ActionState    `json:"state"`
}

// MarketSnapshot is the exchange board view broadcast to a room.
type MarketSnapshot struct {
	PlayerNicknames   []string                                 `json:"player_nicknames"`
	PlayerStockShares [game.SlotCount][]int                    `json:"player_stock_shares"`
	LeftStocks        [game.SlotCount]int                      `json:"left_stocks"`
	StockPrices       [game.SlotCount]int                      `json:"stock_prices"`
	GoldPrice         int                                      `json:"gold_price"`
	PriceLevel        int                                      `json:"price_level"`
	PriceHistory      [game.SlotCount][game.HistorySamples]int `json:"price_history"`
}

// GetPlayerSnapshot returns one player's wallet view.
func (e *Engine) GetPlayerSnapshot(ctx context.Context, roomID, sender string) (*PlayerSnapshot, error) {
	if err := validateRequest(roomID, sender); err != nil {
		return nil, err
	}
	arena, err := e.loadArena(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if arena.Game == nil {
		return nil, game.ErrArenaNotFound
	}
	player, err := arena.Game.FindPlayer(sender)
	if err != nil {
		return nil, err
	}

	return &PlayerSnapshot{
		Nickname:       player.Nickname,
		Cash:           player.Cash,
		Stocks:         player.Stocks,
		GoldOwned:      player.GoldOwned,
		CarryingStocks: player.CarryingStocks,
		CarryingGolds:  player.CarryingGolds,
		HasLoan:        player.HasLoan,
		LoanPrincipal:  player.LoanPrincipal,
		LoanInterest:   player.LoanInterest,
		TotalDebt:      player.TotalDebt,
		State:          player.State,
	}, nil
}

// GetMarketSnapshot returns the exchange board for a room.
func (e *Engine) GetMarketSnapshot(ctx context.Context, roomID string) (*MarketSnapshot, error) {
	arena, err := e.loadArena(ctx, roomID)
	if err != nil {
		return nil, err
	}
	g := arena.Game
	if g == nil {
		return nil, game.ErrArenaNotFound
	}

	snap := &MarketSnapshot{
		GoldPrice:    g.GoldPrice,
		PriceLevel:   g.PriceLevel,
		PriceHistory: g.PriceHistory,
	}
	for _, p := range g.Players {
		snap.PlayerNicknames = append(snap.PlayerNicknames, p.Nickname)
	}
	for i := 1; i < game.SlotCount; i++ {
		shares := make([]int, len(g.Players))
		for j, p := range g.Players {
			shares[j] = p.Stocks[i]
		}
		snap.PlayerStockShares[i] = shares
		snap.LeftStocks[i] = g.Market[i].Count
		snap.StockPrices[i] = g.Market[i].Price()
	}
	return snap, nil
}

// ListActiveGames enumerates every room currently in play.
func (e *Engine) ListActiveGames(ctx context.Context) ([]*game.Game, error) {
	metrics.Get().RecordStoreRead()
	arenas, err := e.store.ListByPrefix(ctx, store.RoomPrefix)
	if err != nil {
		return nil, err
	}

	var games []*game.Game
	for _, arena := range arenas {
		if arena.Game != nil && arena.Game.Status == game.StatusInGame {
			games = append(games, arena.Game)
		}
	}
	return games, nil
}

// RecordPriceHistory samples every good's current price into the chart
// grid. round and remainTime (seconds left of a 120s round) place the
// sample on the x axis.
func (e *Engine) RecordPriceHistory(ctx context.Context, roomID string, round, remainTime int) (*game.Arena, error) {
	return e.withArena(ctx, "RECORD_HISTORY", roomID, func(arena *game.Arena) error {
		g := arena.Game
		if g == nil {
			return game.ErrArenaNotFound
		}

		x := ((round-1)*120 + (120 - remainTime)) / 20
		if x < 0 {
			x = 0
		}
		if x >= game.HistorySamples {
			x = game.HistorySamples - 1
		}

		for i := 1; i < game.SlotCount; i++ {
			g.PriceHistory[i][x] = g.Market[i].Price()
		}
		return nil
	})
}
