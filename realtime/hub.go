package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/services"
)

// Hub fans committed workflow events out to connected clients. A single goroutine owns the
// client set; everything else talks to it through channels.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan services.Event
	done       chan struct{}
}

// NewHub creates a hub. Call Run to start delivering events.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan services.Event, 256),
		done:       make(chan struct{}),
	}
}

// Run delivers events until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Realtime client connected: user=%s role=%s", client.userID, client.role)

		case client := <-h.unregister:
			if h.clients[client] {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Realtime client disconnected: user=%s", client.userID)
			}

		case event := <-h.broadcast:
			h.deliver(event)

		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Publish queues an event for delivery. Events are dropped when the queue is full.
func (h *Hub) Publish(event services.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("Realtime queue full, dropping %s event for %s", event.Type, event.ID)
	}
}

func (h *Hub) deliver(event services.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode %s event: %v", event.Type, err)
		return
	}

	audience := make(map[string]bool)
	for _, id := range event.Audience() {
		audience[id] = true
	}

	for client := range h.clients {
		if client.role != models.RoleTailor && !audience[client.userID] {
			continue
		}
		select {
		case client.send <- data:
		default:
			// slow consumer
			delete(h.clients, client)
			close(client.send)
		}
	}
}
