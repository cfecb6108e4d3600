package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const NotificationAdventureInvitation = "adventure_invitation"

type Notification struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Link      *string         `json:"link,omitempty"`
	Metadata  json.RawMessage `json:"metadata"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}
