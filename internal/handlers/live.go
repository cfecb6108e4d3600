package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/websocket"
	"github.com/sirupsen/logrus"
)

const (
	livePingInterval = 30 * time.Second
	liveWriteTimeout = 10 * time.Second
	liveReadTimeout  = 60 * time.Second
)

type LiveMessage struct {
	Action      string `json:"action"`
	AdventureID string `json:"adventure_id,omitempty"`
}

// LiveHandler is the WebSocket twin of the SSE stream: the same hub events,
// with subscriptions managed over the socket itself.
type LiveHandler struct {
	hub              SSEHubInterface
	adventureService AdventureServiceInterface
	log              logrus.FieldLogger
}

func NewLiveHandler(hub SSEHubInterface, adventureService AdventureServiceInterface, log logrus.FieldLogger) *LiveHandler {
	return &LiveHandler{
		hub:              hub,
		adventureService: adventureService,
		log:              log,
	}
}

func (h *LiveHandler) Connect(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}
	superAdmin := middleware.GetAccess(c).IsSuperAdmin

	conn, err := websocket.Upgrade(c)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &sse.Client{
		ID:         uuid.New().String(),
		UserID:     userID,
		Adventures: map[uuid.UUID]bool{},
		Send:       make(chan []byte, 256),
	}
	h.hub.Register(client)

	_ = conn.WriteJSON(map[string]string{
		"type":      "connected",
		"client_id": client.ID,
	})

	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(livePingInterval)
		defer ticker.Stop()
		defer func() {
			if err := conn.Close(websocket.CloseNormalClosure, ""); err != nil {
				h.log.WithError(err).Debug("websocket close failed")
			}
		}()

		for {
			select {
			case msg, ok := <-client.Send:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
				if err := conn.WriteText(string(msg)); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.Ping(nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	defer func() {
		close(done)
		h.hub.Unregister(client)
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(liveReadTimeout))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var msg LiveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = conn.WriteJSON(map[string]string{"type": "error", "message": "invalid message format"})
			continue
		}
		_ = conn.WriteJSON(h.handle(client, superAdmin, msg))
	}
}

// handle applies one client message and returns the reply.
func (h *LiveHandler) handle(client *sse.Client, superAdmin bool, msg LiveMessage) map[string]string {
	switch msg.Action {
	case "ping":
		return map[string]string{"type": "pong"}
	case "subscribe", "unsubscribe":
	default:
		return map[string]string{"type": "error", "message": "unknown action", "ref_action": msg.Action}
	}

	adventureID, err := uuid.Parse(msg.AdventureID)
	if err != nil {
		return map[string]string{"type": "error", "message": "invalid adventure_id", "ref_action": msg.Action}
	}

	if msg.Action == "unsubscribe" {
		h.hub.UnsubscribeFromAdventure(client.ID, adventureID)
		return map[string]string{"type": "unsubscribed", "adventure_id": adventureID.String()}
	}

	membership, err := h.adventureService.Membership(context.Background(), adventureID, client.UserID)
	if err != nil || (!superAdmin && !membership.CanView()) {
		return map[string]string{"type": "error", "message": "adventure not found", "ref_action": msg.Action}
	}

	h.hub.SubscribeToAdventure(client.ID, adventureID)
	return map[string]string{"type": "subscribed", "adventure_id": adventureID.String()}
}
