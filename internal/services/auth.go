package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/sse"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type loginTracker interface {
	Track(ctx context.Context, user string) bool
}

type preferenceClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

type userPublisher interface {
	PublishToUser(userID uuid.UUID, eventType string, data interface{})
}

// Session is what a successful sign-up, sign-in or refresh hands back.
type Session struct {
	User       *models.User
	Tokens     *TokenPair
	FirstLogin bool
}

type SessionEvent struct {
	Action string    `json:"action"`
	UserID uuid.UUID `json:"user_id"`
}

const (
	sessionSignedIn     = "signed_in"
	sessionSignedOut    = "signed_out"
	sessionSignedOutAll = "signed_out_all"
)

// AuthService owns the session lifecycle on top of the user, token and JWT services.
type AuthService struct {
	users   *UserService
	tokens  *TokenService
	jwt     *JWTService
	tracker loginTracker
	prefs   preferenceClearer
	events  userPublisher
	log     logrus.FieldLogger
}

func NewAuthService(
	users *UserService,
	tokens *TokenService,
	jwt *JWTService,
	tracker loginTracker,
	prefs preferenceClearer,
	events userPublisher,
	log logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		jwt:     jwt,
		tracker: tracker,
		prefs:   prefs,
		events:  events,
		log:     log,
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.Create(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, user)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, user)
}

func (s *AuthService) open(ctx context.Context, user *models.User) (*Session, error) {
	pair, err := s.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.jwt.RefreshExpiry())
	if err := s.tokens.StoreRefreshToken(ctx, user.ID, HashToken(pair.RefreshToken), expiresAt); err != nil {
		return nil, err
	}

	first := s.tracker.Track(ctx, user.Email)
	s.events.PublishToUser(user.ID, sse.EventSession, SessionEvent{Action: sessionSignedIn, UserID: user.ID})

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "first_login": first}).Info("signed in")
	return &Session{User: user, Tokens: pair, FirstLogin: first}, nil
}

// Refresh exchanges a refresh token for a new pair. Each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	userID, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	pair, err := s.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.jwt.RefreshExpiry())
	if err := s.tokens.RotateRefreshToken(ctx, user.ID, HashToken(refreshToken), HashToken(pair.RefreshToken), expiresAt); err != nil {
		return nil, err
	}
	return &Session{User: user, Tokens: pair}, nil
}

// SignOut revokes one refresh token. A token that no longer parses is still
// revoked by hash, but nothing else is cleared.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokens.RevokeRefreshToken(ctx, HashToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	userID, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	s.endSession(ctx, userID, sessionSignedOut)
	return nil
}

func (s *AuthService) SignOutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.RevokeAllUserTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	s.endSession(ctx, userID, sessionSignedOutAll)
	return nil
}

func (s *AuthService) endSession(ctx context.Context, userID uuid.UUID, action string) {
	if err := s.prefs.Clear(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to clear role-mode preferences")
	}
	s.events.PublishToUser(userID, sse.EventSession, SessionEvent{Action: action, UserID: userID})
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}
