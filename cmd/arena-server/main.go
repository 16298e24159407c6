// Package main is the entry point for the Goldrush arena server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/goldrush-games/arena-server/internal/config"
	"github.com/goldrush-games/arena-server/internal/domain/game"
	"github.com/goldrush-games/arena-server/internal/engine"
	"github.com/goldrush-games/arena-server/internal/infra/store"
	"github.com/goldrush-games/arena-server/internal/network"
	"github.com/goldrush-games/arena-server/internal/platform/logger"
	"github.com/goldrush-games/arena-server/internal/platform/metrics"
)

func main() {
	configPath := flag.String("config", "arena.yaml", "path to the YAML config file")
	flag.Parse()

	log.Println("[ARENA-SERVER] Initializing Goldrush Authoritative Server...")

	appLogger := logger.NewLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.Error("Failed to load config: " + err.Error())
		os.Exit(1)
	}

	var st store.Store
	switch cfg.Store.Driver {
	case "memory":
		appLogger.Info("Using in-memory arena store")
		st = store.NewMemoryStore()
	default:
		appLogger.Info("Initializing SQLite database '" + cfg.Store.Path + "'...")
		db, err := store.InitSQLite(cfg.Store.Path)
		if err != nil {
			appLogger.Error("Failed to initialize SQLite: " + err.Error())
			os.Exit(1)
		}
		defer db.Close()
		st = store.NewSQLiteStore(db, uuid.NewString())
	}

	appLogger.Info("Bootstrapping Engine Subsystems...")
	rng := engine.SystemRand()
	if cfg.Engine.Seed != 0 {
		rng = engine.NewRand(cfg.Engine.Seed)
	}
	eng := engine.NewEngine(st, appLogger, rng)
	eng.DistributedLock = cfg.Store.DistributedLock

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(eng, appLogger)
	go hub.Run(ctx)

	// Setup API Routes
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	http.HandleFunc("/api/rooms", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		type roomReq struct {
			RoomID string `json:"room_id"`
		}
		var req roomReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if req.RoomID == "" {
			req.RoomID = uuid.NewString()
		}
		if err := eng.CreateRoom(r.Context(), req.RoomID); err != nil {
			writeEngineError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "room_id": req.RoomID})
	})

	http.HandleFunc("/api/games/start", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		type startReq struct {
			RoomID    string   `json:"room_id"`
			Nicknames []string `json:"nicknames"`
		}
		var req startReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		arena, err := eng.InitializeGame(r.Context(), req.RoomID, req.Nicknames)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		hub.BroadcastRoom(req.RoomID, network.ServerMessage{
			Type:    "GAME_STARTED",
			RoomID:  req.RoomID,
			Payload: arena.Game,
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(arena.Game)
	})

	http.HandleFunc("/api/games", func(w http.ResponseWriter, r *http.Request) {
		games, err := eng.ListActiveGames(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(games)
	})

	http.HandleFunc("/api/rounds/announce", func(w http.ResponseWriter, r *http.Request) {
		roundAction(w, r, hub, func(ctx context.Context, roomID string) (interface{}, error) {
			return eng.AnnounceEvent(ctx, roomID)
		}, "EVENT_ANNOUNCED")
	})

	http.HandleFunc("/api/rounds/apply", func(w http.ResponseWriter, r *http.Request) {
		roundAction(w, r, hub, func(ctx context.Context, roomID string) (interface{}, error) {
			return eng.ApplyEvent(ctx, roomID)
		}, "EVENT_APPLIED")
	})

	http.HandleFunc("/api/rounds/advance", func(w http.ResponseWriter, r *http.Request) {
		roundAction(w, r, hub, func(ctx context.Context, roomID string) (interface{}, error) {
			arena, err := eng.AdvanceRound(ctx, roomID)
			if err != nil {
				return nil, err
			}
			return arena.Game, nil
		}, "ROUND_ADVANCED")
	})

	http.HandleFunc("/api/rounds/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		type historyReq struct {
			RoomID     string `json:"room_id"`
			Round      int    `json:"round"`
			RemainTime int    `json:"remain_time"`
		}
		var req historyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		arena, err := eng.RecordPriceHistory(r.Context(), req.RoomID, req.Round, req.RemainTime)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(arena.Game.PriceHistory)
	})

	http.HandleFunc("/api/market", func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		snap, err := eng.GetMarketSnapshot(r.Context(), roomID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	})

	http.HandleFunc("/api/player", func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		nickname := r.URL.Query().Get("nickname")
		snap, err := eng.GetPlayerSnapshot(r.Context(), roomID, nickname)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	})

	http.Handle("/metrics", metrics.Handler())

	go func() {
		log.Println("[ARENA-SERVER] HTTP API & WS Server listening on " + cfg.Server.Addr)
		if err := http.ListenAndServe(cfg.Server.Addr, nil); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[ARENA-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[ARENA-SERVER] Shutting down...")
}

// roundAction is the shared handler shape for room-scoped round
// transitions triggered over HTTP.
func roundAction(w http.ResponseWriter, r *http.Request, hub *network.Hub, fn func(context.Context, string) (interface{}, error), msgType string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	type roomReq struct {
		RoomID string `json:"room_id"`
	}
	var req roomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	result, err := fn(r.Context(), req.RoomID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	hub.BroadcastRoom(req.RoomID, network.ServerMessage{
		Type:    msgType,
		RoomID:  req.RoomID,
		Payload: result,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func writeEngineError(w http.ResponseWriter, err error) {
	var pm *game.PlayerMessage
	if errors.As(err, &pm) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"status": "rejected", "code": string(pm.Code)})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrArenaNotFound), errors.Is(err, game.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrRequest), errors.Is(err, game.ErrInvalidRound):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // game clients connect from a separate origin
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	roomID := r.URL.Query().Get("room")
	nickname := r.URL.Query().Get("nickname")

	client := network.NewClient(hub, conn, roomID, nickname)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
