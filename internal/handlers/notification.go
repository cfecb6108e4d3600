package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/sse"
	"github.com/dimitrije/tripvote-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type NotificationHandler struct {
	notificationService NotificationServiceInterface
	hub                 SSEHubInterface
	pollInterval        time.Duration
}

func NewNotificationHandler(notificationService NotificationServiceInterface, hub SSEHubInterface, pollInterval time.Duration) *NotificationHandler {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &NotificationHandler{
		notificationService: notificationService,
		hub:                 hub,
		pollInterval:        pollInterval,
	}
}

func (h *NotificationHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	notifications, err := h.notificationService.List(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to list notifications, please retry")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	_ = c.JSON(200, notifications)
}

func (h *NotificationHandler) UnreadCount(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	count, err := h.notificationService.UnreadCount(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to count notifications, please retry")
		return
	}

	_ = c.JSON(200, dto.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	notificationID, ok := parseIDParam(c, "notificationId", "notification")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(context.Background(), notificationID, userID); err != nil {
		writeError(c, err, "failed to update notification")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	updated, err := h.notificationService.MarkAllRead(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to update notifications, please retry")
		return
	}

	_ = c.JSON(200, dto.MarkAllReadResponse{Updated: updated})
}

// Stream pushes the unread count on connect, on every poll tick and as soon as
// a notification is published to the user. A push restarts the tick.
func (h *NotificationHandler) Stream(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ctx := c.Request.Context()

	count, err := h.notificationService.UnreadCount(ctx, userID)
	if err != nil {
		c.InternalServerError("failed to count notifications, please retry")
		return
	}

	stream := c.SSE()

	client := &sse.Client{
		ID:         uuid.New().String(),
		UserID:     userID,
		Adventures: map[uuid.UUID]bool{},
		Send:       make(chan []byte, 64),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := stream.SendJSON(dto.UnreadCountResponse{Count: count}, "unread_count", ""); err != nil {
		return
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	push := func() bool {
		count, err := h.notificationService.UnreadCount(ctx, userID)
		if err != nil {
			// Keep the stream open; the next tick retries.
			return ctx.Err() == nil
		}
		return stream.SendJSON(dto.UnreadCountResponse{Count: count}, "unread_count", "") == nil
	}

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			var event sse.Event
			if err := json.Unmarshal(msg, &event); err != nil || event.Type != sse.EventNotification {
				continue
			}
			if !push() {
				return
			}
			ticker.Reset(h.pollInterval)
		case <-ticker.C:
			if !push() {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
