package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Jit017/iplauction/internal/domain"
	"github.com/Jit017/iplauction/internal/engine"
	"github.com/Jit017/iplauction/internal/metrics"
)

// WSMessage is a JSON message sent to WebSocket clients: the event kind
// plus the round snapshot at that moment.
type WSMessage struct {
	Type   string              `json:"type"`
	State  domain.AuctionState `json:"state"`
	Team   string              `json:"team,omitempty"`
	Player string              `json:"player,omitempty"`
	Amount string              `json:"amount,omitempty"`
	Reason string              `json:"reason,omitempty"`
}

// WSHub manages WebSocket connections and broadcasts auction events to
// every connected client.
type WSHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	log *slog.Logger
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub(log *slog.Logger) *WSHub {
	if log == nil {
		log = slog.Default()
	}
	return &WSHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		log:        log,
	}
}

// Run starts the hub's main loop. Must be called in a goroutine.
func (h *WSHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Set(float64(total))
			h.log.Info("ws client connected", slog.Int("total", total))

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Set(float64(total))

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// HandleEvent is a subscriber that forwards auction events to connected
// clients. The send is non-blocking so a slow client can never stall the
// auction.
func (h *WSHub) HandleEvent(ev engine.Event) {
	msg := WSMessage{
		Type:  string(ev.Kind()),
		State: ev.Snapshot(),
	}
	switch e := ev.(type) {
	case engine.BidPlaced:
		msg.Team = e.Team.Name
		msg.Amount = e.Amount.String()
	case engine.PlayerSet:
		msg.Player = e.Player.Name
	case engine.PlayerSold:
		msg.Player = e.Player.Name
		msg.Team = e.Team.Name
		msg.Amount = e.Amount.String()
	case engine.PlayerUnsold:
		msg.Player = playerName(e.Player)
		msg.Reason = e.Reason
	case engine.PlayerSkipped:
		msg.Player = playerName(e.Player)
		msg.Reason = e.Reason
	case engine.ErrorEvent:
		msg.Reason = e.Err.Error()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// Drop if the buffer is full rather than blocking the engine.
	}
}

func playerName(p *domain.Player) string {
	if p == nil {
		return ""
	}
	return p.Name
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// HandleWS handles WebSocket upgrade requests at GET /api/v1/ws.
func (h *WSHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws upgrade failed", slog.Any("error", err))
		return
	}

	h.register <- conn

	// Read pump: keep the connection alive and detect disconnects.
	go func() {
		defer func() { h.unregister <- conn }()
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
