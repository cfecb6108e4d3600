package handlers

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	authService AuthServiceInterface
}

func NewAuthHandler(authService AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func sessionResponse(s *services.Session) dto.SessionResponse {
	return dto.SessionResponse{
		TokenResponse: dto.TokenResponse{
			AccessToken:  s.Tokens.AccessToken,
			RefreshToken: s.Tokens.RefreshToken,
			ExpiresIn:    s.Tokens.ExpiresIn,
		},
		User: dto.UserResponse{
			ID:        s.User.ID,
			Email:     s.User.Email,
			CreatedAt: s.User.CreatedAt,
		},
		FirstLogin: s.FirstLogin,
	}
}

func (h *AuthHandler) SignUp(c *drift.Context) {
	var req dto.SignUpRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	session, err := h.authService.SignUp(context.Background(), req.Email, req.Password)
	if err != nil {
		writeError(c, err, "failed to sign up")
		return
	}

	_ = c.JSON(201, sessionResponse(session))
}

func (h *AuthHandler) SignIn(c *drift.Context) {
	var req dto.SignInRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		c.BadRequest("email and password are required")
		return
	}

	session, err := h.authService.SignIn(context.Background(), req.Email, req.Password)
	if err != nil {
		writeError(c, err, "failed to sign in")
		return
	}

	_ = c.JSON(200, sessionResponse(session))
}

func (h *AuthHandler) Refresh(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	session, err := h.authService.Refresh(context.Background(), req.RefreshToken)
	if err != nil {
		writeError(c, err, "failed to refresh session")
		return
	}

	_ = c.JSON(200, dto.TokenResponse{
		AccessToken:  session.Tokens.AccessToken,
		RefreshToken: session.Tokens.RefreshToken,
		ExpiresIn:    session.Tokens.ExpiresIn,
	})
}

func (h *AuthHandler) SignOut(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := h.authService.SignOut(context.Background(), req.RefreshToken); err != nil {
		writeError(c, err, "failed to sign out")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "signed out"})
}

func (h *AuthHandler) SignOutAll(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.authService.SignOutAll(context.Background(), userID); err != nil {
		writeError(c, err, "failed to sign out")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "signed out from all devices"})
}

// Session returns the signed-in user together with the access view of this request.
func (h *AuthHandler) Session(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.authService.CurrentUser(context.Background(), userID)
	if err != nil {
		writeError(c, err, "failed to load session")
		return
	}

	_ = c.JSON(200, dto.CurrentSessionResponse{
		User: dto.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
		Access: accessResponse(middleware.GetAccess(c)),
	})
}
