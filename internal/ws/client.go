package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/auth"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Screens only listen; anything bigger than a close frame is unexpected.
	maxMessageSize = 512

	// Events queued per connection before the hub gives up on it.
	sendBuffer = 256
)

// EventConnected is the first event on every connection.
const EventConnected = "connected"

// Client is one open screen listening for events.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	rooms []string
	send  chan []byte
}

// ReadPump waits for the peer to go away and then unregisters the client. Inbound
// messages are discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ERROR: websocket read: %v", err)
			}
			return
		}
	}
}

// WritePump writes queued events, batching whatever is already waiting into one
// frame, and pings the peer so dead screens are noticed.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Dropped by the hub.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeBatch(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeBatch(first []byte) error {
	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	w.Write(first)
	for n := len(c.send); n > 0; n-- {
		w.Write([]byte{'\n'})
		w.Write(<-c.send)
	}
	return w.Close()
}

// ServeWS handles WS /ws?token=JWT. Every connection joins its session room;
// kitchen sessions also join KitchenRoom. Browser origins must be listed in
// allowedOrigins ("*" allows any); requests without an Origin header are accepted.
func ServeWS(hub *Hub, jwtSecret string, allowedOrigins []string, w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := auth.ValidateToken(jwtSecret, tokenStr)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(allowedOrigins, r.Header.Get("Origin"))
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ERROR: websocket upgrade: %v", err)
		return
	}

	client := &Client{
		hub:   hub,
		conn:  conn,
		rooms: roomsFor(claims),
		send:  make(chan []byte, sendBuffer),
	}
	if hello, err := connectedEvent(claims, client.rooms); err == nil {
		client.send <- hello
	}
	hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}

func roomsFor(claims *auth.Claims) []string {
	rooms := []string{SessionRoom(claims.SessionID)}
	if claims.Page == enum.PageKitchen {
		rooms = append(rooms, KitchenRoom)
	}
	return rooms
}

func connectedEvent(claims *auth.Claims, rooms []string) ([]byte, error) {
	payload, err := json.Marshal(map[string]any{
		"page":  claims.Page,
		"lang":  claims.Lang,
		"rooms": rooms,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Type: EventConnected, Payload: payload})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}
