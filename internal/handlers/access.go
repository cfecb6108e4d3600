package handlers

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type AccessHandler struct {
	accessService     AccessServiceInterface
	preferenceService PreferenceServiceInterface
}

func NewAccessHandler(accessService AccessServiceInterface, preferenceService PreferenceServiceInterface) *AccessHandler {
	return &AccessHandler{
		accessService:     accessService,
		preferenceService: preferenceService,
	}
}

func permissionStrings(set access.PermissionSet) []string {
	perms := set.Slice()
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func rolePtr(r *access.Role) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}

func accessResponse(eff access.Effective) dto.AccessResponse {
	actual := eff.Actual()
	return dto.AccessResponse{
		Role:              rolePtr(eff.Role),
		Permissions:       permissionStrings(eff.Permissions),
		IsAdmin:           eff.IsAdmin,
		IsSuperAdmin:      eff.IsSuperAdmin,
		PreviewMode:       eff.PreviewMode,
		SelectedRole:      rolePtr(eff.SelectedRole),
		ActualRole:        string(actual.Role),
		ActualPermissions: permissionStrings(actual.Permissions),
	}
}

func (h *AccessHandler) Get(c *drift.Context) {
	_ = c.JSON(200, accessResponse(middleware.GetAccess(c)))
}

// UpdatePreferences toggles preview mode and the acting role. Only a stored
// superadmin may change either, whatever they are currently acting as.
func (h *AccessHandler) UpdatePreferences(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if !middleware.GetAccess(c).Actual().IsSuperAdmin() {
		c.Forbidden("only a superadmin can change role mode")
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	var role *access.Role
	if req.SelectedRole != nil && *req.SelectedRole != "" {
		r, ok := access.ParseRole(*req.SelectedRole)
		if !ok {
			c.BadRequest("selected_role must be user or superadmin")
			return
		}
		role = &r
	}

	ctx := context.Background()

	if req.PreviewMode != nil {
		if err := h.preferenceService.SetPreviewMode(ctx, userID, *req.PreviewMode); err != nil {
			c.InternalServerError("failed to save preferences, please retry")
			return
		}
	}
	if req.SelectedRole != nil {
		if err := h.preferenceService.SetSelectedRole(ctx, userID, role); err != nil {
			c.InternalServerError("failed to save preferences, please retry")
			return
		}
	}

	_ = c.JSON(200, accessResponse(h.accessService.Resolve(ctx, userID, middleware.GetUserEmail(c))))
}
