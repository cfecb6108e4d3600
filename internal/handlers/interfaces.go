package handlers

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/firstlogin"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/internal/sse"
	"github.com/dimitrije/tripvote-api/internal/votes"
	"github.com/google/uuid"
)

// AuthServiceInterface defines the methods used by handlers from AuthService
type AuthServiceInterface interface {
	SignUp(ctx context.Context, email, password string) (*services.Session, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*services.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	SignOutAll(ctx context.Context, userID uuid.UUID) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName *string) (*models.UserProfile, error)
}

// PreferenceServiceInterface defines the methods used by handlers from PreferenceService
type PreferenceServiceInterface interface {
	SetPreviewMode(ctx context.Context, userID uuid.UUID, on bool) error
	SetSelectedRole(ctx context.Context, userID uuid.UUID, role *access.Role) error
}

// AccessServiceInterface defines the methods used by handlers from AccessService
type AccessServiceInterface interface {
	Resolve(ctx context.Context, userID uuid.UUID, email string) access.Effective
}

// RoleServiceInterface defines the methods used by handlers from RoleService
type RoleServiceInterface interface {
	ListUsers(ctx context.Context) ([]models.UserAccess, error)
	SetRoleAndPermissions(ctx context.Context, userID uuid.UUID, role access.Role, perms []access.Permission) error
}

// AdventureServiceInterface defines the methods used by handlers from AdventureService
type AdventureServiceInterface interface {
	Create(ctx context.Context, in services.CreateAdventureInput) (*services.CreateAdventureResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Adventure, error)
	List(ctx context.Context, userID uuid.UUID, all bool) ([]models.Adventure, error)
	Update(ctx context.Context, id uuid.UUID, name string, description *string) (*models.Adventure, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Membership(ctx context.Context, adventureID, userID uuid.UUID) (services.Membership, error)
}

// DetailServiceInterface defines the methods used by handlers from DetailService
type DetailServiceInterface interface {
	Get(ctx context.Context, adventureID, viewerID uuid.UUID) (*services.AdventureDetail, error)
}

// DestinationServiceInterface defines the methods used by handlers from DestinationService
type DestinationServiceInterface interface {
	AdventureOf(ctx context.Context, destinationID uuid.UUID) (uuid.UUID, error)
	Add(ctx context.Context, adventureID uuid.UUID, in services.DestinationInput) (*models.Destination, error)
	Edit(ctx context.Context, id uuid.UUID, in services.DestinationInput) (*models.Destination, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VoteServiceInterface defines the methods used by handlers from VoteService
type VoteServiceInterface interface {
	Cast(ctx context.Context, adventureID, destinationID, userID uuid.UUID, voteType string, comment *string) (*models.Vote, error)
}

// ParticipantServiceInterface defines the methods used by handlers from ParticipantService
type ParticipantServiceInterface interface {
	Add(ctx context.Context, in services.AddParticipantInput) (*models.Participant, error)
	List(ctx context.Context, adventure *models.Adventure) ([]models.Participant, error)
	Remove(ctx context.Context, adventureID, participantID uuid.UUID) error
	Invitations(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error)
	Accept(ctx context.Context, participantID, userID uuid.UUID) error
	Decline(ctx context.Context, participantID, userID uuid.UUID) error
}

// NotificationServiceInterface defines the methods used by handlers from NotificationService
type NotificationServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// LegacyVoteServiceInterface defines the methods used by handlers from LegacyVoteService
type LegacyVoteServiceInterface interface {
	Cast(ctx context.Context, key string, userID uuid.UUID, email, voteType string, comment *string) (*models.LegacyVote, error)
	ForUser(ctx context.Context, userID uuid.UUID) (map[string]models.LegacyVote, error)
	Counts(ctx context.Context, key string) (votes.Tally, error)
	All(ctx context.Context) ([]models.LegacyVote, error)
	Statistics(ctx context.Context) ([]services.DestinationStat, error)
}

// FirstLoginTrackerInterface defines the methods used by handlers from firstlogin.Tracker
type FirstLoginTrackerInterface interface {
	TodayEvents(ctx context.Context) ([]firstlogin.Event, error)
	Reset(ctx context.Context) error
}

// SSEHubInterface defines the methods used by handlers from the SSE hub
type SSEHubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	SubscribeToAdventure(clientID string, adventureID uuid.UUID) bool
	UnsubscribeFromAdventure(clientID string, adventureID uuid.UUID)
	OwnsClient(clientID string, userID uuid.UUID) bool
}
