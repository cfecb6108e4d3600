package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type UserService struct {
	db         *database.DB
	log        logrus.FieldLogger
	bcryptCost int
}

func NewUserService(db *database.DB, log logrus.FieldLogger) *UserService {
	return &UserService{db: db, log: log, bcryptCost: bcrypt.DefaultCost}
}

// Create registers a new identity. The default role row is written best-effort:
// a missing row already resolves to the ordinary user role.
func (s *UserService) Create(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user models.User
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at, updated_at
	`, email, string(hash)).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if database.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := s.db.Pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, 'user')
		ON CONFLICT (user_id) DO NOTHING
	`, user.ID); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to create default role row")
	}

	return &user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users WHERE email = $1
	`, normalizeEmail(email)).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// LookupIDByEmail resolves an email through the get_user_id_by_email function.
func (s *UserService) LookupIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	var id *uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT get_user_id_by_email($1)`, normalizeEmail(email)).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if id == nil {
		return uuid.Nil, ErrUserNotFound
	}
	return *id, nil
}

func (s *UserService) LookupEmailByID(ctx context.Context, id uuid.UUID) (string, error) {
	var email *string
	err := s.db.Pool.QueryRow(ctx, `SELECT get_user_email_by_id($1)`, id).Scan(&email)
	if err != nil {
		return "", fmt.Errorf("failed to look up email: %w", err)
	}
	if email == nil {
		return "", ErrUserNotFound
	}
	return *email, nil
}

// GetProfile returns an empty profile when none was saved yet.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	p := models.UserProfile{UserID: userID}
	err := s.db.Pool.QueryRow(ctx, `
		SELECT first_name, last_name, updated_at FROM user_profiles WHERE user_id = $1
	`, userID).Scan(&p.FirstName, &p.LastName, &p.UpdatedAt)
	if err != nil && !database.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName *string) (*models.UserProfile, error) {
	p := models.UserProfile{UserID: userID}
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO user_profiles (user_id, first_name, last_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
			SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, updated_at = NOW()
		RETURNING first_name, last_name, updated_at
	`, userID, optionalText(firstName), optionalText(lastName)).Scan(&p.FirstName, &p.LastName, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &p, nil
}

// DisplayName prefers the profile name and falls back to the email.
func (s *UserService) DisplayName(ctx context.Context, userID uuid.UUID) (string, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if name := profile.DisplayName(""); name != "" {
		return name, nil
	}
	return s.LookupEmailByID(ctx, userID)
}
