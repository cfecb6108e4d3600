package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plain password of every fixture user.
const FixturePassword = "secret123"

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email: fmt.Sprintf("user%d@example.com", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at, updated_at
	`, user.Email, string(hash)).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// GrantRole stores a role and a set of permissions for a user.
func (f *Fixtures) GrantRole(t *testing.T, user *models.User, role access.Role, perms ...access.Permission) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role
	`, user.ID, string(role))
	if err != nil {
		t.Fatalf("failed to grant role: %v", err)
	}

	for _, p := range perms {
		_, err := f.db.Pool.Exec(ctx, `
			INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, user.ID, string(p))
		if err != nil {
			t.Fatalf("failed to grant permission: %v", err)
		}
	}
}

// SetProfile stores a first and last name for a user.
func (f *Fixtures) SetProfile(t *testing.T, user *models.User, firstName, lastName string) {
	t.Helper()

	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO user_profiles (user_id, first_name, last_name) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name
	`, user.ID, firstName, lastName)
	if err != nil {
		t.Fatalf("failed to set profile: %v", err)
	}
}

// CreateAdventure creates an active adventure owned by owner, with the creator
// and owner participant rows in place.
func (f *Fixtures) CreateAdventure(t *testing.T, owner *models.User) *models.Adventure {
	t.Helper()
	f.counter++

	ctx := context.Background()
	a := &models.Adventure{}
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO adventures (name, created_by)
		VALUES ($1, $2)
		RETURNING id, name, description, created_by, is_active, created_at, updated_at
	`, fmt.Sprintf("Test Adventure %d", f.counter), owner.ID).Scan(
		&a.ID, &a.Name, &a.Description, &a.CreatedBy, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create adventure: %v", err)
	}

	if _, err := f.db.Pool.Exec(ctx, `
		INSERT INTO adventure_creators (adventure_id, user_id) VALUES ($1, $2)
	`, a.ID, owner.ID); err != nil {
		t.Fatalf("failed to link creator: %v", err)
	}
	if _, err := f.db.Pool.Exec(ctx, `
		INSERT INTO adventure_participants (adventure_id, user_id, added_by) VALUES ($1, $2, $2)
	`, a.ID, owner.ID); err != nil {
		t.Fatalf("failed to link owner participant: %v", err)
	}

	return a
}

// AddParticipant adds user to the adventure with the given invitation status.
func (f *Fixtures) AddParticipant(t *testing.T, adventure *models.Adventure, user *models.User, status string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO adventure_participants (adventure_id, user_id, added_by, invitation_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, adventure.ID, user.ID, adventure.CreatedBy, status).Scan(&id)
	if err != nil {
		t.Fatalf("failed to add participant: %v", err)
	}
	return id
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}
