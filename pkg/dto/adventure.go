package dto

import "github.com/google/uuid"

type PlaceRequest struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
}

type DestinationRequest struct {
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	ImageURL    *string        `json:"image_url,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Places      []PlaceRequest `json:"places"`
}

type CreateAdventureRequest struct {
	Name         string               `json:"name"`
	Description  *string              `json:"description,omitempty"`
	Destinations []DestinationRequest `json:"destinations,omitempty"`
}

type UpdateAdventureRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type CastVoteRequest struct {
	VoteType string  `json:"vote_type"`
	Comment  *string `json:"comment,omitempty"`
}

type AddParticipantRequest struct {
	Email string `json:"email"`
	// CurrentEmails lets the client short-circuit duplicates it already shows.
	CurrentEmails []string `json:"current_emails,omitempty"`
}
