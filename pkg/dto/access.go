package dto

import (
	"time"

	"github.com/google/uuid"
)

// AccessResponse carries both the effective view and the stored grant, so the
// client can render the preview and role switchers.
type AccessResponse struct {
	Role         *string  `json:"role"`
	Permissions  []string `json:"permissions"`
	IsAdmin      bool     `json:"is_admin"`
	IsSuperAdmin bool     `json:"is_super_admin"`
	PreviewMode  bool     `json:"preview_mode"`
	SelectedRole *string  `json:"selected_role"`

	ActualRole        string   `json:"actual_role"`
	ActualPermissions []string `json:"actual_permissions"`
}

type UpdatePreferencesRequest struct {
	PreviewMode *bool `json:"preview_mode"`
	// SelectedRole "" clears the selection.
	SelectedRole *string `json:"selected_role"`
}

type UserAccessResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

type UpdateUserAccessRequest struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}
