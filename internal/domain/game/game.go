// Package game defines the core domain entities for the exchange arena.
// This package is PURE and must NOT import any infrastructure packages
// (network, store, platform).
package game

// SlotCount is the number of market slots. Index 0 is the black token,
// a sentinel with no tradable price; goods occupy indexes 1..5.
const SlotCount = 6

const (
	// StartingCash is every player's opening wallet.
	StartingCash = 100

	// InitialAllotment is the fixed number of tokens that exist per
	// tradable good. The conservation invariant holds this constant
	// across pocket, player holdings, market and tracks.
	InitialAllotment = 23

	// MarketSeedTotal tokens are spread over the goods at setup.
	MarketSeedTotal = 20

	// MarketSeedMin/Max bound the per-good share of the seed.
	MarketSeedMin = 1
	MarketSeedMax = 7

	// DealPerPlayer tokens are dealt to each player at setup.
	DealPerPlayer = 5

	// TrackFluctuationTotal is the track total that triggers a
	// fluctuation round.
	TrackFluctuationTotal = 5

	// BuyTrackPriceStep is the per-good buy-track count that forces a
	// single price step up.
	BuyTrackPriceStep = 3

	// StartingInterestRate opens every game; events clamp it to
	// [MinInterestRate, MaxInterestRate].
	StartingInterestRate = 5
	MinInterestRate      = 1
	MaxInterestRate      = 10

	// StartingGoldPrice opens the gold market.
	StartingGoldPrice = 20

	// FinalRound is the last playable round.
	FinalRound = 10

	// HistorySamples is the width of the per-good price chart grid.
	HistorySamples = 61
)

// SellTrackStart is the sell track's starting vector. Slot 0 carries the
// single black token parked on the track; the per-good entries are funded
// from the pocket at setup and whenever the track reseeds.
var SellTrackStart = [SlotCount]int{1, 2, 2, 2, 2, 2}

// Status is the lifecycle state of a room's game.
type Status string

const (
	StatusInGame   Status = "IN_GAME"
	StatusFinished Status = "GAME_FINISHED"
)

// RoundPhase distinguishes the special round types.
type RoundPhase string

const (
	PhaseTutorial         RoundPhase = "TUTORIAL"
	PhaseNormal           RoundPhase = "NORMAL"
	PhaseStockFluctuation RoundPhase = "STOCK_FLUCTUATION"
)

// Game is the authoritative state of one room's simulation.
type Game struct {
	RoomID  string    `json:"room_id"`
	Status  Status    `json:"status"`
	Message string    `json:"message"`
	Players []*Player `json:"players"`

	Round      int        `json:"round"`
	RoundPhase RoundPhase `json:"round_phase"`

	InterestRate  int            `json:"interest_rate"`
	EventSequence [11]int        `json:"event_sequence"` // per-round event ids; slots 0 and 10 unused
	CurrentEvent  *EconomicEvent `json:"current_event,omitempty"`
	PriceLevel    int            `json:"price_level"`

	Pocket       [SlotCount]int       `json:"pocket"`
	Market       [SlotCount]StockSlot `json:"market"`
	SellTrack    [SlotCount]int       `json:"sell_track"`
	BuyTrack     [SlotCount]int       `json:"buy_track"`
	GoldBuyTrack [SlotCount]int       `json:"gold_buy_track"`

	GoldPrice            int `json:"gold_price"`
	GoldPriceIncreaseCnt int `json:"gold_price_increase_cnt"`

	PriceHistory [SlotCount][HistorySamples]int `json:"price_history"`
}

// FindPlayer looks a participant up by nickname.
func (g *Game) FindPlayer(nickname string) (*Player, error) {
	for _, p := range g.Players {
		if p.Nickname == nickname {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// Arena wraps one room's game state with its metadata. It is the unit
// of persistence and locking.
type Arena struct {
	RoomID  string `json:"room_id"`
	Game    *Game  `json:"game,omitempty"`
	Message string `json:"message"`
}
