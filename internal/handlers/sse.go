package handlers

import (
	"fmt"

	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type SSEHandler struct {
	hub  SSEHubInterface
	gate adventureGate
}

func NewSSEHandler(hub SSEHubInterface, adventureService AdventureServiceInterface) *SSEHandler {
	return &SSEHandler{
		hub:  hub,
		gate: adventureGate{adventures: adventureService},
	}
}

// Connect opens the user's live event stream. Session changes and
// notifications arrive unrequested; adventure events only after Subscribe.
func (h *SSEHandler) Connect(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:         clientID,
		UserID:     userID,
		Adventures: map[uuid.UUID]bool{},
		Send:       make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// clientOf checks that the client in the path belongs to the caller.
func (h *SSEHandler) clientOf(c *drift.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return "", false
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return "", false
	}
	if !h.hub.OwnsClient(clientID, userID) {
		c.NotFound("client not found")
		return "", false
	}
	return clientID, true
}

func (h *SSEHandler) Subscribe(c *drift.Context) {
	clientID, ok := h.clientOf(c)
	if !ok {
		return
	}

	adventureID, ok := parseIDParam(c, "adventureId", "adventure")
	if !ok {
		return
	}
	if !h.gate.allow(c, adventureID, gateView) {
		return
	}

	if !h.hub.SubscribeToAdventure(clientID, adventureID) {
		c.NotFound("client not found")
		return
	}

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("subscribed to adventure %s", adventureID),
	})
}

func (h *SSEHandler) Unsubscribe(c *drift.Context) {
	clientID, ok := h.clientOf(c)
	if !ok {
		return
	}

	adventureID, ok := parseIDParam(c, "adventureId", "adventure")
	if !ok {
		return
	}

	h.hub.UnsubscribeFromAdventure(clientID, adventureID)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("unsubscribed from adventure %s", adventureID),
	})
}

