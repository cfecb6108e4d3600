package handlers

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func profileResponse(p *models.UserProfile, email string) dto.ProfileResponse {
	return dto.ProfileResponse{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DisplayName: p.DisplayName(email),
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ctx := context.Background()

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		writeError(c, err, "failed to get user")
		return
	}

	resp := dto.UserResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}
	if profile, err := h.userService.GetProfile(ctx, userID); err == nil {
		resp.DisplayName = profile.DisplayName(user.Email)
	} else {
		resp.DisplayName = user.Email
	}

	_ = c.JSON(200, resp)
}

func (h *UserHandler) GetProfile(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	profile, err := h.userService.GetProfile(context.Background(), userID)
	if err != nil {
		writeError(c, err, "failed to get profile")
		return
	}

	_ = c.JSON(200, profileResponse(profile, middleware.GetUserEmail(c)))
}

func (h *UserHandler) UpdateProfile(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	profile, err := h.userService.UpdateProfile(context.Background(), userID, req.FirstName, req.LastName)
	if err != nil {
		writeError(c, err, "failed to update profile")
		return
	}

	_ = c.JSON(200, profileResponse(profile, middleware.GetUserEmail(c)))
}
