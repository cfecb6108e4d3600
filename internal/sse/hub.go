package sse

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

const (
	EventSession      = "session"
	EventVoteCast     = "vote_cast"
	EventNotification = "notification"
	EventParticipants = "participants_changed"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Adventures map[uuid.UUID]bool
	Send       chan []byte
}

// message targets either every client of one user or every client subscribed
// to one adventure.
type message struct {
	userID      uuid.UUID
	adventureID uuid.UUID
	event       Event
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *message
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *message, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if !msg.matches(client) {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (m *message) matches(c *Client) bool {
	if m.userID != uuid.Nil {
		return c.UserID == m.userID
	}
	return c.Adventures[m.adventureID]
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) SubscribeToAdventure(clientID string, adventureID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[clientID]
	if ok {
		client.Adventures[adventureID] = true
	}
	return ok
}

func (h *Hub) UnsubscribeFromAdventure(clientID string, adventureID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Adventures, adventureID)
	}
}

// OwnsClient reports whether clientID is a live connection of userID.
func (h *Hub) OwnsClient(clientID string, userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[clientID]
	return ok && client.UserID == userID
}

func (h *Hub) PublishToUser(userID uuid.UUID, eventType string, data interface{}) {
	h.broadcast <- &message{userID: userID, event: Event{Type: eventType, Data: data}}
}

func (h *Hub) PublishToAdventure(adventureID uuid.UUID, eventType string, data interface{}) {
	h.broadcast <- &message{adventureID: adventureID, event: Event{Type: eventType, Data: data}}
}
