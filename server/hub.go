package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"globeviewer/metrics"
	"globeviewer/viewer"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// PanelMessage is the JSON frame sent to browser panels
type PanelMessage struct {
	Type string `json:"type"`
	viewer.DisplayPayload
	HTML string `json:"html"`
}

func newPanelMessage(p viewer.DisplayPayload) PanelMessage {
	return PanelMessage{Type: "panel", DisplayPayload: p, HTML: p.HTML()}
}

// Hub fans panel payloads out to every connected browser. Publish never
// blocks the caller; payloads are dropped when the queue is full.
type Hub struct {
	log      *slog.Logger
	metrics  *metrics.Metrics
	queue    chan viewer.DisplayPayload
	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex

	lastMu  sync.RWMutex
	last    viewer.DisplayPayload
	hasLast bool
}

// NewHub creates a hub with a queue of the given size
func NewHub(log *slog.Logger, m *metrics.Metrics, queueSize int) *Hub {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Hub{
		log:     log,
		metrics: m,
		queue:   make(chan viewer.DisplayPayload, queueSize),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Publish implements viewer.DisplaySurface
func (h *Hub) Publish(payload viewer.DisplayPayload) {
	select {
	case h.queue <- payload:
	default:
		h.metrics.PanelDropped.Inc()
		h.log.Warn("panel queue full, dropping update")
	}
}

// Last returns the most recently broadcast payload
func (h *Hub) Last() (viewer.DisplayPayload, bool) {
	h.lastMu.RLock()
	defer h.lastMu.RUnlock()
	return h.last, h.hasLast
}

// Clients returns the number of connected panels
func (h *Hub) Clients() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Run broadcasts queued payloads until ctx is done, then closes every client
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case payload := <-h.queue:
			h.lastMu.Lock()
			h.last, h.hasLast = payload, true
			h.lastMu.Unlock()
			h.broadcast(payload)
		}
	}
}

// ServeWS upgrades the request and keeps the panel connected until it goes away
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	h.clientsMu.Lock()
	h.clients[conn] = connMutex
	h.clientsMu.Unlock()
	h.metrics.PanelClients.Inc()
	h.log.Debug("panel connected", "remote", r.RemoteAddr)

	defer func() {
		h.remove(conn)
		h.log.Debug("panel disconnected", "remote", r.RemoteAddr)
	}()

	if last, ok := h.Last(); ok {
		if err := h.write(conn, connMutex, newPanelMessage(last)); err != nil {
			h.log.Warn("initial panel write failed", "error", err)
			return
		}
	}

	// Panels only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) broadcast(payload viewer.DisplayPayload) {
	msg := newPanelMessage(payload)

	h.clientsMu.RLock()
	failed := []*websocket.Conn{}
	for client, mutex := range h.clients {
		if err := h.write(client, mutex, msg); err != nil {
			h.log.Warn("websocket write failed", "error", err)
			client.Close()
			failed = append(failed, client)
		}
	}
	h.clientsMu.RUnlock()
	h.metrics.PanelBroadcast.Inc()

	for _, client := range failed {
		h.remove(client)
	}
}

func (h *Hub) write(conn *websocket.Conn, mutex *sync.Mutex, msg PanelMessage) error {
	mutex.Lock()
	defer mutex.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	h.metrics.PanelClients.Dec()
}

func (h *Hub) closeAll() {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for client, mutex := range h.clients {
		mutex.Lock()
		_ = client.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "viewer closed"),
			time.Now().Add(writeWait))
		mutex.Unlock()
		client.Close()
	}
}
