package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tfontaine/geosim/internal/clock"
	"github.com/tfontaine/geosim/internal/logging"
	"github.com/tfontaine/geosim/internal/scheduler"
	"github.com/tfontaine/geosim/pkg/geomessage"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local test tool.
	},
}

// Event is one playback notification streamed to dashboard clients.
type Event struct {
	Index   int               `json:"index"`
	Message map[string]string `json:"message,omitempty"`
	End     bool              `json:"end,omitempty"`
	Time    time.Time         `json:"time"`
}

// Hub manages WebSocket clients and broadcasts playback events.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	log     *logging.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(log *logging.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		log:     log,
	}
}

// HandleWebSocket upgrades the HTTP connection and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Read loop — keep connection alive, handle disconnects.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Broadcast sends an event to all connected WebSocket clients.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Warnw("websocket marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warnw("websocket write failed", "error", err)
			conn.Close()
			// Don't delete during iteration — the read goroutine will clean up.
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Observer adapts the hub to the scheduler's observer interface. Callbacks
// run on the tick goroutine; MessageReady holds the rewritten record until
// the paired Advanced call supplies its index.
type hubObserver struct {
	hub     *Hub
	clock   clock.Clock
	pending geomessage.Message
}

// NewObserver returns a scheduler observer that streams sent messages to
// the hub's clients.
func NewObserver(hub *Hub, clk clock.Clock) scheduler.Observer {
	return &hubObserver{hub: hub, clock: clk}
}

func (o *hubObserver) MessageReady(msg geomessage.Message) {
	o.pending = msg
}

func (o *hubObserver) Advanced(index int) {
	o.hub.Broadcast(Event{
		Index:   index,
		Message: o.pending.Map(),
		Time:    o.clock.Now(),
	})
}

func (o *hubObserver) DeliveryFailed(error) {}

func (o *hubObserver) StreamEnded() {
	o.hub.Broadcast(Event{End: true, Time: o.clock.Now()})
}
