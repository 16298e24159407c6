package network

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/goldrush-games/arena-server/internal/domain/game"
	"github.com/goldrush-games/arena-server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// PlayerAction represents an incoming command from the frontend.
type PlayerAction struct {
	Type    string          `json:"type"` // "BUY_STOCKS", "SELL_STOCKS", "PURCHASE_GOLD", ...
	RoomID  string          `json:"room_id"`
	Sender  string          `json:"sender"`
	Payload json.RawMessage `json:"payload"`
}

// Client holds one WebSocket connection bound to a room and nickname.
type Client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	roomID   string
	nickname string
}

// NewClient creates a new WebSocket client for a room.
func NewClient(hub *Hub, conn *websocket.Conn, roomID, nickname string) *Client {
	return &Client{
		id:       uuid.NewString(),
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 64),
		roomID:   roomID,
		nickname: nickname,
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket read error: " + err.Error())
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket: " + err.Error())
			metrics.Get().RecordWSError()
			continue
		}
		if action.RoomID == "" {
			action.RoomID = c.roomID
		}
		if action.Sender == "" {
			action.Sender = c.nickname
		}

		c.handlePlayerAction(action)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				metrics.Get().RecordWSError()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type stocksPayload struct {
	Stocks [game.SlotCount]int `json:"stocks"`
}

type amountPayload struct {
	Amount int `json:"amount"`
}

type movePayload struct {
	Position     [3]float64 `json:"position"`
	Direction    [3]float64 `json:"direction"`
	ActionToggle bool       `json:"action_toggle"`
}

// handlePlayerAction routes one inbound command onto the engine and
// answers with the updated room view, or routes a soft failure back to
// this client alone.
func (c *Client) handlePlayerAction(action PlayerAction) {
	ctx := context.Background()
	eng := c.hub.engine

	var err error
	switch action.Type {
	case "BUY_STOCKS":
		var p stocksPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			_, err = eng.BuyStocks(ctx, action.RoomID, action.Sender, p.Stocks)
		}
	case "SELL_STOCKS":
		var p stocksPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			_, err = eng.SellStocks(ctx, action.RoomID, action.Sender, p.Stocks)
		}
	case "PURCHASE_GOLD":
		var p amountPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			_, err = eng.PurchaseGold(ctx, action.RoomID, action.Sender, p.Amount)
		}
	case "TAKE_LOAN":
		var p amountPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			_, err = eng.TakeLoan(ctx, action.RoomID, action.Sender, p.Amount)
		}
	case "REPAY_LOAN":
		var p amountPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			_, err = eng.RepayLoan(ctx, action.RoomID, action.Sender, p.Amount)
		}
	case "MOVE":
		var p movePayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			_, err = eng.MovePlayer(ctx, action.RoomID, action.Sender, p.Position, p.Direction, p.ActionToggle)
		}
	default:
		c.hub.logger.Warn("Unknown action type from client: " + action.Type)
		return
	}

	if err != nil {
		c.reportFailure(action, err)
		return
	}

	// Successful actions refresh the shared board and this player's
	// wallet view.
	if snap, snapErr := eng.GetMarketSnapshot(ctx, action.RoomID); snapErr == nil {
		c.hub.BroadcastRoom(action.RoomID, ServerMessage{
			Type:    "MARKET_UPDATE",
			RoomID:  action.RoomID,
			Payload: snap,
		})
	}
	if snap, snapErr := eng.GetPlayerSnapshot(ctx, action.RoomID, action.Sender); snapErr == nil {
		c.hub.sendTo(c, ServerMessage{
			Type:    "PLAYER_UPDATE",
			RoomID:  action.RoomID,
			To:      action.Sender,
			Payload: snap,
		})
	}
}

// reportFailure sends soft failures to the acting player only and logs
// structural ones.
func (c *Client) reportFailure(action PlayerAction, err error) {
	var pm *game.PlayerMessage
	if errors.As(err, &pm) {
		c.hub.sendTo(c, ServerMessage{
			Type:   "ACTION_REJECTED",
			RoomID: action.RoomID,
			To:     pm.Nickname,
			Error:  string(pm.Code),
		})
		return
	}

	c.hub.logger.Error("Action " + action.Type + " failed in room " + action.RoomID + ": " + err.Error())
	c.hub.sendTo(c, ServerMessage{
		Type:   "ACTION_FAILED",
		RoomID: action.RoomID,
		Error:  err.Error(),
	})
}
