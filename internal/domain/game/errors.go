package game

import (
	"errors"
	"fmt"
)

// Structural failures abort an operation and leave the stored state
// untouched. They indicate a broken request or an inconsistent room.
var (
	ErrArenaNotFound        = errors.New("arena not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrRequest              = errors.New("missing room id or sender")
	ErrInvalidRound         = errors.New("invalid round for this operation")
	ErrEventNotFound        = errors.New("economic event not found")
	ErrInvalidStockGroup    = errors.New("unknown stock group")
	ErrInvalidStockLevel    = errors.New("price level out of range")
	ErrInsufficientStock    = errors.New("not enough tokens in the pocket")
	ErrInvalidSellStocks    = errors.New("invalid stock quantities")
	ErrImpossibleStockCount = errors.New("trade size outside the level cap")
	ErrExceedsDiffRange     = errors.New("draw difference exceeds the chart range")
	ErrInvalidBlackToken    = errors.New("black token draw count out of range")
	ErrPlayerState          = errors.New("player already completed this round's action")
)

// MessageCode identifies a soft failure addressed to the acting player
// rather than treated as a server error.
type MessageCode string

const (
	MsgInsufficientCash  MessageCode = "INSUFFICIENT_CASH"
	MsgOutOfCash         MessageCode = "OUT_OF_CASH"
	MsgStockNotAvailable MessageCode = "STOCK_NOT_AVAILABLE"
	MsgLoanAlreadyTaken  MessageCode = "LOAN_ALREADY_TAKEN"
	MsgAmountOutOfRange  MessageCode = "AMOUNT_OUT_OF_RANGE"
	MsgAmountExceedsDebt MessageCode = "AMOUNT_EXCEED_DEBT"
	MsgAmountExceedsCash MessageCode = "AMOUNT_EXCEED_CASH"
)

// PlayerMessage is a soft failure routed back to one player. It still
// aborts the operation without persisting anything.
type PlayerMessage struct {
	RoomID   string
	Nickname string
	Code     MessageCode
}

func (e *PlayerMessage) Error() string {
	return fmt.Sprintf("player message %s for %s in room %s", e.Code, e.Nickname, e.RoomID)
}

// NewPlayerMessage builds a soft failure for the acting player.
func NewPlayerMessage(roomID, nickname string, code MessageCode) *PlayerMessage {
	return &PlayerMessage{RoomID: roomID, Nickname: nickname, Code: code}
}

// IsPlayerMessage reports whether err is a soft, user-addressed failure.
func IsPlayerMessage(err error) bool {
	var pm *PlayerMessage
	return errors.As(err, &pm)
}
