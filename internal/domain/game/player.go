package game

// ActionState tracks how far a player has progressed through the
// current round's single allowed exchange action.
type ActionState string

const (
	ActionNotStarted ActionState = "NOT_STARTED"
	ActionInProgress ActionState = "IN_PROGRESS"
	ActionCompleted  ActionState = "COMPLETED"
)

// Player represents one participant's wallet, holdings and transient
// presence fields inside a room.
type Player struct {
	Nickname      string `json:"nickname"`
	CharacterType int    `json:"character_type"`

	// Presence (overwritten wholesale on every move update)
	Position     [3]float64 `json:"position"`
	Direction    [3]float64 `json:"direction"`
	ActionToggle bool       `json:"action_toggle"`

	// Wallet
	Cash      int            `json:"cash"`
	Stocks    [SlotCount]int `json:"stocks"`
	GoldOwned int            `json:"gold_owned"`

	// In-transit visuals, not part of the wallet
	CarryingStocks [SlotCount]int `json:"carrying_stocks"`
	CarryingGolds  int            `json:"carrying_golds"`

	// Loan
	HasLoan       bool `json:"has_loan"`
	LoanPrincipal int  `json:"loan_principal"`
	LoanInterest  int  `json:"loan_interest"`
	TotalDebt     int  `json:"total_debt"`

	State     ActionState `json:"state"`
	Connected bool        `json:"connected"`
}

// NewPlayer creates a fresh participant with the starting wallet.
func NewPlayer(nickname string, characterType int, dealt [SlotCount]int) *Player {
	return &Player{
		Nickname:      nickname,
		CharacterType: characterType,
		Cash:          StartingCash,
		Stocks:        dealt,
		State:         ActionNotStarted,
		Connected:     true,
	}
}

// Repay reduces the player's debt and cash by amount. Callers validate
// that amount does not exceed either.
func (p *Player) Repay(amount int) {
	p.TotalDebt -= amount
	p.Cash -= amount
}
