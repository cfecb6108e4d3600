package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
)

type Adventure struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Destination struct {
	ID          uuid.UUID `json:"id"`
	AdventureID uuid.UUID `json:"adventure_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Places      []Place   `json:"places"`
}

type Place struct {
	ID            uuid.UUID `json:"id"`
	DestinationID uuid.UUID `json:"destination_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	OrderIndex    int       `json:"order_index"`
}

type Vote struct {
	ID            uuid.UUID `json:"id"`
	DestinationID uuid.UUID `json:"destination_id"`
	UserID        uuid.UUID `json:"user_id"`
	UserEmail     string    `json:"user_email,omitempty"`
	VoteType      string    `json:"vote_type"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Participant struct {
	ID               uuid.UUID  `json:"id"`
	AdventureID      uuid.UUID  `json:"adventure_id"`
	UserID           uuid.UUID  `json:"user_id"`
	AddedBy          *uuid.UUID `json:"added_by,omitempty"`
	InvitationStatus *string    `json:"invitation_status,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UserEmail        string     `json:"user_email,omitempty"`
	DisplayName      string     `json:"display_name,omitempty"`
}

// IsPending reports whether the invitation has not been answered yet.
func (p *Participant) IsPending() bool {
	return p.InvitationStatus != nil && *p.InvitationStatus == InvitationPending
}

type Creator struct {
	ID          uuid.UUID `json:"id"`
	AdventureID uuid.UUID `json:"adventure_id"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Invitation is a pending participant row joined with what the invitee needs to decide.
type Invitation struct {
	ParticipantID uuid.UUID  `json:"participant_id"`
	AdventureID   uuid.UUID  `json:"adventure_id"`
	AdventureName string     `json:"adventure_name"`
	InvitedBy     *uuid.UUID `json:"invited_by,omitempty"`
	InviterEmail  string     `json:"inviter_email,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
