package realtime

import (
	"encoding/json"
	"sync"
	"time"
)

// Event types published to the dashboard feed
const (
	EventContactReceived    = "contact_received"
	EventNotificationSent   = "notification_sent"
	EventNotificationFailed = "notification_failed"
)

// Event is one message on the dashboard feed
type Event struct {
	Type      string    `json:"type"`
	ContactID uint      `json:"contactId,omitempty"`
	At        time.Time `json:"at"`
}

// Client represents a single feed connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub tracks connected dashboard viewers, grouped by user id, and fans
// events out to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[Client]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[Client]struct{})}
}

// Register adds a client under a user ID
func (h *Hub) Register(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

// Unregister removes a client; a user without clients is dropped
func (h *Hub) Unregister(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Publish sends evt to every connected client. Failed writes are left for
// the owning handler to clean up.
func (h *Hub) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for c := range clients {
			c.Send(payload)
		}
	}
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}
