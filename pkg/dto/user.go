package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProfileResponse struct {
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	DisplayName string    `json:"display_name"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}
