package handlers

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type AdminHandler struct {
	roleService       RoleServiceInterface
	legacyVoteService LegacyVoteServiceInterface
	tracker           FirstLoginTrackerInterface
}

func NewAdminHandler(roleService RoleServiceInterface, legacyVoteService LegacyVoteServiceInterface, tracker FirstLoginTrackerInterface) *AdminHandler {
	return &AdminHandler{
		roleService:       roleService,
		legacyVoteService: legacyVoteService,
		tracker:           tracker,
	}
}

func (h *AdminHandler) ListUsers(c *drift.Context) {
	users, err := h.roleService.ListUsers(context.Background())
	if err != nil {
		c.InternalServerError("failed to list users, please retry")
		return
	}

	response := make([]dto.UserAccessResponse, len(users))
	for i, u := range users {
		response[i] = dto.UserAccessResponse{
			ID:          u.ID,
			Email:       u.Email,
			Role:        u.Role,
			Permissions: u.Permissions,
			CreatedAt:   u.CreatedAt,
		}
	}

	_ = c.JSON(200, response)
}

func (h *AdminHandler) UpdateUserAccess(c *drift.Context) {
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	var req dto.UpdateUserAccessRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	role, ok := access.ParseRole(req.Role)
	if !ok {
		c.BadRequest("role must be user or superadmin")
		return
	}

	perms := make([]access.Permission, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		perm, ok := access.ParsePermission(p)
		if !ok {
			c.BadRequest("unknown permission: " + p)
			return
		}
		perms = append(perms, perm)
	}

	if targetID == middleware.GetUserID(c) && role != access.RoleSuperAdmin {
		c.BadRequest("cannot demote yourself")
		return
	}

	if err := h.roleService.SetRoleAndPermissions(context.Background(), targetID, role, perms); err != nil {
		writeError(c, err, "failed to update user access")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "access updated"})
}

// Statistics is the legacy catalog dashboard.
func (h *AdminHandler) Statistics(c *drift.Context) {
	ctx := context.Background()

	stats, err := h.legacyVoteService.Statistics(ctx)
	if err != nil {
		c.InternalServerError("failed to load statistics, please retry")
		return
	}

	all, err := h.legacyVoteService.All(ctx)
	if err != nil {
		c.InternalServerError("failed to load statistics, please retry")
		return
	}

	_ = c.JSON(200, map[string]any{
		"destinations": stats,
		"votes":        all,
		"total_votes":  len(all),
	})
}

func (h *AdminHandler) FirstLogins(c *drift.Context) {
	events, err := h.tracker.TodayEvents(context.Background())
	if err != nil {
		c.InternalServerError("failed to load first logins, please retry")
		return
	}

	today := make([]dto.FirstLoginEvent, len(events))
	for i, e := range events {
		today[i] = dto.FirstLoginEvent{User: e.User, Date: e.Date, Timestamp: e.Timestamp, Time: e.Time}
	}

	_ = c.JSON(200, dto.FirstLoginsResponse{Today: today, Count: len(today)})
}

func (h *AdminHandler) ResetFirstLogins(c *drift.Context) {
	if err := h.tracker.Reset(context.Background()); err != nil {
		c.InternalServerError("failed to reset first logins, please retry")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "first logins reset"})
}
