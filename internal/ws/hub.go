package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Event is one wallet lifecycle notification pushed to connected admins.
type Event struct {
	Type string      `json:"type"` // e.g. earning.processed, payout.status
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

// Client is a single websocket subscriber.
type Client struct {
	UserID uint
	Send   chan []byte
	hub    *EventHub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// EventHub fans wallet events out to connected admin clients. It satisfies
// the core's EventPublisher port, so services can emit without knowing about
// websockets.
type EventHub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*Client]struct{})}
}

func (h *EventHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *EventHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Publish broadcasts an event to all subscribers. Slow clients are skipped
// rather than blocking the caller.
func (h *EventHub) Publish(eventType string, data interface{}) {
	payload, _ := json.Marshal(Event{Type: eventType, Data: data, At: time.Now()})
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- payload:
		default:
		}
	}
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
