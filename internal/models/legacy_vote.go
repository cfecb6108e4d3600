package models

import (
	"time"

	"github.com/google/uuid"
)

// LegacyVote is a yes/no vote on one of the fixed catalog destinations.
type LegacyVote struct {
	ID            uuid.UUID `json:"id"`
	DestinationID string    `json:"destination_id"`
	UserID        uuid.UUID `json:"user_id"`
	UserEmail     string    `json:"user_email"`
	VoteType      string    `json:"vote_type"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
