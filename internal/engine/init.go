package engine

import (
	"context"
	"fmt"

	"github.com/goldrush-games/arena-server/internal/domain/game"
)

// characterTypes is the fixed pool of playable character assets. A
// fresh shuffled copy is made per initialization so concurrent room
// setups never observe each other's draw order.
var characterTypes = []int{0, 1, 2, 3}

const (
	eventRounds       = 9  // rounds 1..9 each get a news entry
	eventDrawAttempts = 50 // retry cap before declaring the catalog too small
)

// InitializeGame attaches a freshly dealt game to an existing room.
// The room container must already exist; the player list must be
// non-empty and no larger than the character pool.
func (e *Engine) InitializeGame(ctx context.Context, roomID string, nicknames []string) (*game.Arena, error) {
	if len(nicknames) == 0 {
		return nil, game.ErrPlayerNotFound
	}
	if len(nicknames) > len(characterTypes) {
		return nil, game.ErrRequest
	}

	return e.withArena(ctx, "INIT_GAME", roomID, func(arena *game.Arena) error {
		pocket := [game.SlotCount]int{0, 23, 23, 23, 23, 23}

		market, err := e.seedMarket(&pocket)
		if err != nil {
			return err
		}

		characters := make([]int, len(characterTypes))
		copy(characters, characterTypes)
		e.rng.Shuffle(len(characters), func(i, j int) {
			characters[i], characters[j] = characters[j], characters[i]
		})

		players := make([]*game.Player, 0, len(nicknames))
		for i, nickname := range nicknames {
			dealt := e.dealStocks()
			for g := 1; g < game.SlotCount; g++ {
				pocket[g] -= dealt[g]
				if pocket[g] < 0 {
					return game.ErrInsufficientStock
				}
			}
			players = append(players, game.NewPlayer(nickname, characters[i], dealt))
		}

		sellTrack := game.SellTrackStart
		for g := 1; g < game.SlotCount; g++ {
			pocket[g] -= sellTrack[g]
			if pocket[g] < 0 {
				return game.ErrInsufficientStock
			}
		}

		sequence, err := e.drawEventSequence()
		if err != nil {
			return err
		}

		arena.Game = &game.Game{
			RoomID:  roomID,
			Status:  game.StatusInGame,
			Message: "GAME_START",
			Players: players,

			Round:      1,
			RoundPhase: game.PhaseTutorial,

			InterestRate:  game.StartingInterestRate,
			EventSequence: sequence,
			PriceLevel:    0,

			Pocket:    pocket,
			Market:    market,
			SellTrack: sellTrack,

			GoldPrice: game.StartingGoldPrice,
		}
		arena.Message = "GAME_INITIALIZED"
		return nil
	})
}

// seedMarket spreads MarketSeedTotal tokens over the goods, at least
// MarketSeedMin and at most MarketSeedMax each, then nudges the
// best-stocked goods one column toward the cheap side and the
// worst-stocked one column toward the expensive side.
func (e *Engine) seedMarket(pocket *[game.SlotCount]int) ([game.SlotCount]game.StockSlot, error) {
	var market [game.SlotCount]game.StockSlot
	market[0] = game.StockSlot{Coord: game.Coordinate{Row: 0, Col: 0}}
	for g := 1; g < game.SlotCount; g++ {
		market[g] = game.StockSlot{Coord: game.Coordinate{Row: 12, Col: 3}}
	}

	counts := [5]int{}
	remaining := game.MarketSeedTotal
	for i := range counts {
		counts[i] = game.MarketSeedMin
		remaining -= game.MarketSeedMin
	}
	for remaining > 0 {
		i := e.rng.Intn(len(counts))
		if counts[i] < game.MarketSeedMax {
			counts[i]++
			remaining--
		}
	}

	for i, n := range counts {
		g := i + 1
		if pocket[g] < n {
			return market, game.ErrInsufficientStock
		}
		pocket[g] -= n
		market[g].Count += n
	}

	maxCnt, minCnt := counts[0], counts[0]
	for _, n := range counts[1:] {
		if n > maxCnt {
			maxCnt = n
		}
		if n < minCnt {
			minCnt = n
		}
	}
	for i, n := range counts {
		g := i + 1
		if n == maxCnt {
			market[g].Shift(0, -1)
		}
		if n == minCnt {
			market[g].Shift(0, 1)
		}
	}

	return market, nil
}

// dealStocks draws one player's opening holding vector: goods 1-4 get a
// uniform draw capped by both the remainder and 3, good 5 takes the rest.
func (e *Engine) dealStocks() [game.SlotCount]int {
	var dealt [game.SlotCount]int
	remaining := game.DealPerPlayer
	for g := 1; g < game.SlotCount-1; g++ {
		if remaining <= 0 {
			continue
		}
		max := remaining
		if max > 3 {
			max = 3
		}
		dealt[g] = e.rng.Intn(max + 1)
		remaining -= dealt[g]
	}
	dealt[game.SlotCount-1] = remaining
	return dealt
}

// drawEventSequence picks nine distinct news entries for rounds 1..9.
func (e *Engine) drawEventSequence() ([11]int, error) {
	var sequence [11]int
	seen := make(map[int]bool, eventRounds)
	for round := 1; round <= eventRounds; round++ {
		attempts := 0
		for {
			id := e.rng.Intn(game.EventCatalogSize()) + 1
			if !seen[id] {
				sequence[round] = id
				seen[id] = true
				break
			}
			attempts++
			if attempts > eventDrawAttempts {
				return sequence, fmt.Errorf("news catalog exhausted after %d attempts: %w", attempts, game.ErrEventNotFound)
			}
		}
	}
	return sequence, nil
}
