package network

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/goldrush-games/arena-server/internal/engine"
	"github.com/goldrush-games/arena-server/internal/platform/logger"
	"github.com/goldrush-games/arena-server/internal/platform/metrics"
)

// Hub maintains the set of active clients per room and broadcasts room
// state to them.
type Hub struct {
	engine     *engine.Engine
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	broadcast  chan roomMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
}

type roomMessage struct {
	roomID  string
	payload []byte
}

// ServerMessage is the envelope every outbound frame uses.
type ServerMessage struct {
	Type    string      `json:"type"`
	RoomID  string      `json:"room_id,omitempty"`
	To      string      `json:"to,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewHub initializes a new WebSocket Hub bound to the engine.
func NewHub(eng *engine.Engine, log *logger.Logger) *Hub {
	return &Hub{
		engine:     eng,
		broadcast:  make(chan roomMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections and
// room broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if _, ok := h.rooms[client.roomID]; !ok {
				h.rooms[client.roomID] = make(map[*Client]bool)
			}
			h.rooms[client.roomID][client] = true
			h.mu.Unlock()
			metrics.Get().WSConnect()
			h.logger.Info("Client " + client.id + " joined room " + client.roomID)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if room, ok := h.rooms[client.roomID]; ok {
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, client.roomID)
					}
				}
				close(client.send)
				metrics.Get().WSDisconnect()
				h.logger.Info("Client " + client.id + " left room " + client.roomID)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.rooms[message.roomID] {
				select {
				case client.send <- message.payload:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					delete(h.rooms[message.roomID], client)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastRoom serializes a message and sends it to every client in
// the room.
func (h *Hub) BroadcastRoom(roomID string, msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to serialize room broadcast: " + err.Error())
		metrics.Get().RecordWSError()
		return
	}
	h.broadcast <- roomMessage{roomID: roomID, payload: payload}
}

// sendTo delivers a message to a single client, dropping it if the
// client's buffer is full.
func (h *Hub) sendTo(client *Client, msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to serialize client message: " + err.Error())
		metrics.Get().RecordWSError()
		return
	}
	select {
	case client.send <- payload:
		metrics.Get().RecordWSMessage(false)
	default:
		metrics.Get().RecordWSError()
	}
}
