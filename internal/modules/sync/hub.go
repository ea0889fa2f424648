package sync

import (
	"sync"

	"github.com/gorilla/websocket"
)

// ProgressEvent is what connected clients receive while a run advances.
type ProgressEvent struct {
	Type       string  `json:"type"` // "progress" or "report"
	Collection string  `json:"collection,omitempty"`
	Done       int     `json:"done,omitempty"`
	Total      int     `json:"total,omitempty"`
	Failed     int     `json:"failed,omitempty"`
	Report     *Report `json:"report,omitempty"`
}

// Hub fans sync progress out to websocket subscribers. Connections that
// fail a write are dropped on the spot.
type Hub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{connections: make(map[*websocket.Conn]bool)}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn] = true
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[conn]; ok {
		_ = conn.Close()
		delete(h.connections, conn)
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) broadcast(ev ProgressEvent) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.connections))
	for c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteJSON(ev); err != nil {
			h.Unregister(c)
		}
	}
}

// Progress implements ProgressSink.
func (h *Hub) Progress(collection string, done, total, failed int) {
	h.broadcast(ProgressEvent{
		Type:       "progress",
		Collection: collection,
		Done:       done,
		Total:      total,
		Failed:     failed,
	})
}

// PublishReport pushes the final run summary to subscribers.
func (h *Hub) PublishReport(r *Report) {
	h.broadcast(ProgressEvent{Type: "report", Report: r})
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.connections {
		_ = c.Close()
		delete(h.connections, c)
	}
}
