package sessionws

import (
	"encoding/json"
	"log"
	"strconv"

	websocket "github.com/gofiber/contrib/websocket"
)

// Hub pushes session lifecycle events to connected clients. Clients
// subscribe by session id; the scheduler publishes when a session closes.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     chan *Event
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

type Event struct {
	Type             string `json:"type"`
	SessionID        string `json:"session_id"`
	RemainingSeconds *int64 `json:"remaining_seconds,omitempty"`
	Message          string `json:"message,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan *Event, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.sessionID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.sessionID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.sessionID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.sessionID)
			}
		case event := <-h.events:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SessionEnded notifies every subscriber of the session that its window has
// closed. Called by the scheduler; never blocks it.
func (h *Hub) SessionEnded(sessionID int64) {
	event := &Event{
		Type:      "session_ended",
		SessionID: strconv.FormatInt(sessionID, 10),
		Message:   "Session has expired. Please book a new session to continue.",
	}
	select {
	case h.events <- event:
	default:
		log.Printf("session hub: event queue full, dropping session_ended for %d", sessionID)
	}
}

// SendRemaining pushes a remaining-time snapshot to a single client, used
// right after subscription.
func (c *Client) SendRemaining(remainingSeconds int64) {
	payload, err := json.Marshal(Event{
		Type:             "remaining",
		SessionID:        c.sessionID,
		RemainingSeconds: &remainingSeconds,
	})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (h *Hub) deliver(event *Event) {
	set, ok := h.clients[event.SessionID]
	if !ok {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("session hub: encode event: %v", err)
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, event.SessionID)
	}
}

// ReadPump drains client frames until disconnect. Clients only listen on
// this socket; inbound payloads are ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
