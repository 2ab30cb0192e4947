package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
	"github.com/google/uuid"
)

// Event types pushed to browsers.
const (
	EventNotification  = "notification"
	EventKitchenChange = "kitchen.changed"
)

// KitchenRoom is joined by every connection signed into the kitchen page.
const KitchenRoom = "kitchen"

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// roomEvent is an internal struct for routing events to one room
type roomEvent struct {
	Room  string
	Event Event
}

// SessionRoom is the room of one operator session.
func SessionRoom(id uuid.UUID) string {
	return "session:" + id.String()
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients by room name
	rooms map[string]map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *roomEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomEvent, 256),
	}
}

// Run starts the hub's main loop until ctx is done.
// This should be called as a goroutine: go hub.Run(ctx)
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			for _, room := range client.rooms {
				if h.rooms[room] == nil {
					h.rooms[room] = make(map[*Client]bool)
				}
				h.rooms[room][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.Room] {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes client from all its rooms and closes its send channel once.
// Callers hold mu.
func (h *Hub) drop(client *Client) {
	registered := false
	for _, room := range client.rooms {
		clients, ok := h.rooms[room]
		if !ok || !clients[client] {
			continue
		}
		registered = true
		delete(clients, client)
		// Clean up empty rooms
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	if registered {
		close(client.send)
	}
}

// Broadcast sends an event to all clients in a room. The event is dropped when the
// hub is backed up.
func (h *Hub) Broadcast(room string, event Event) {
	select {
	case h.broadcast <- &roomEvent{Room: room, Event: event}:
	default:
		log.Printf("ERROR: websocket hub backed up, dropping %s event for %s", event.Type, room)
	}
}

// KitchenChanged tells kitchen screens to reload their queue.
func (h *Hub) KitchenChanged() {
	h.Broadcast(KitchenRoom, Event{Type: EventKitchenChange, Payload: json.RawMessage(`{}`)})
}

// SessionNotifier returns a notify.Notifier that pushes toasts to one session.
func (h *Hub) SessionNotifier(id uuid.UUID) notify.Notifier {
	room := SessionRoom(id)
	return notify.Func(func(_ context.Context, n notify.Notification) {
		payload, err := json.Marshal(n)
		if err != nil {
			return
		}
		h.Broadcast(room, Event{Type: EventNotification, Payload: payload})
	})
}
