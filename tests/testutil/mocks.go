package testutil

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/firstlogin"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/internal/sse"
	"github.com/dimitrije/tripvote-api/internal/votes"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password string) (*services.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Session), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*services.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Session), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*services.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) SignOutAll(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName *string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

// MockPreferenceService mocks the PreferenceService
type MockPreferenceService struct {
	mock.Mock
}

func (m *MockPreferenceService) SetPreviewMode(ctx context.Context, userID uuid.UUID, on bool) error {
	args := m.Called(ctx, userID, on)
	return args.Error(0)
}

func (m *MockPreferenceService) SetSelectedRole(ctx context.Context, userID uuid.UUID, role *access.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// MockAccessService mocks the AccessService. It also satisfies the Access
// middleware's resolver.
type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) Resolve(ctx context.Context, userID uuid.UUID, email string) access.Effective {
	args := m.Called(ctx, userID, email)
	return args.Get(0).(access.Effective)
}

// MockRoleService mocks the RoleService
type MockRoleService struct {
	mock.Mock
}

func (m *MockRoleService) ListUsers(ctx context.Context) ([]models.UserAccess, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserAccess), args.Error(1)
}

func (m *MockRoleService) SetRoleAndPermissions(ctx context.Context, userID uuid.UUID, role access.Role, perms []access.Permission) error {
	args := m.Called(ctx, userID, role, perms)
	return args.Error(0)
}

// MockAdventureService mocks the AdventureService
type MockAdventureService struct {
	mock.Mock
}

func (m *MockAdventureService) Create(ctx context.Context, in services.CreateAdventureInput) (*services.CreateAdventureResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CreateAdventureResult), args.Error(1)
}

func (m *MockAdventureService) Get(ctx context.Context, id uuid.UUID) (*models.Adventure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Adventure), args.Error(1)
}

func (m *MockAdventureService) List(ctx context.Context, userID uuid.UUID, all bool) ([]models.Adventure, error) {
	args := m.Called(ctx, userID, all)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Adventure), args.Error(1)
}

func (m *MockAdventureService) Update(ctx context.Context, id uuid.UUID, name string, description *string) (*models.Adventure, error) {
	args := m.Called(ctx, id, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Adventure), args.Error(1)
}

func (m *MockAdventureService) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdventureService) Membership(ctx context.Context, adventureID, userID uuid.UUID) (services.Membership, error) {
	args := m.Called(ctx, adventureID, userID)
	return args.Get(0).(services.Membership), args.Error(1)
}

// MockDetailService mocks the DetailService
type MockDetailService struct {
	mock.Mock
}

func (m *MockDetailService) Get(ctx context.Context, adventureID, viewerID uuid.UUID) (*services.AdventureDetail, error) {
	args := m.Called(ctx, adventureID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AdventureDetail), args.Error(1)
}

// MockDestinationService mocks the DestinationService
type MockDestinationService struct {
	mock.Mock
}

func (m *MockDestinationService) AdventureOf(ctx context.Context, destinationID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, destinationID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockDestinationService) Add(ctx context.Context, adventureID uuid.UUID, in services.DestinationInput) (*models.Destination, error) {
	args := m.Called(ctx, adventureID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Destination), args.Error(1)
}

func (m *MockDestinationService) Edit(ctx context.Context, id uuid.UUID, in services.DestinationInput) (*models.Destination, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Destination), args.Error(1)
}

func (m *MockDestinationService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVoteService mocks the VoteService
type MockVoteService struct {
	mock.Mock
}

func (m *MockVoteService) Cast(ctx context.Context, adventureID, destinationID, userID uuid.UUID, voteType string, comment *string) (*models.Vote, error) {
	args := m.Called(ctx, adventureID, destinationID, userID, voteType, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

// MockParticipantService mocks the ParticipantService
type MockParticipantService struct {
	mock.Mock
}

func (m *MockParticipantService) Add(ctx context.Context, in services.AddParticipantInput) (*models.Participant, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockParticipantService) List(ctx context.Context, adventure *models.Adventure) ([]models.Participant, error) {
	args := m.Called(ctx, adventure)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Participant), args.Error(1)
}

func (m *MockParticipantService) Remove(ctx context.Context, adventureID, participantID uuid.UUID) error {
	args := m.Called(ctx, adventureID, participantID)
	return args.Error(0)
}

func (m *MockParticipantService) Invitations(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockParticipantService) Accept(ctx context.Context, participantID, userID uuid.UUID) error {
	args := m.Called(ctx, participantID, userID)
	return args.Error(0)
}

func (m *MockParticipantService) Decline(ctx context.Context, participantID, userID uuid.UUID) error {
	args := m.Called(ctx, participantID, userID)
	return args.Error(0)
}

// MockNotificationService mocks the NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockLegacyVoteService mocks the LegacyVoteService
type MockLegacyVoteService struct {
	mock.Mock
}

func (m *MockLegacyVoteService) Cast(ctx context.Context, key string, userID uuid.UUID, email, voteType string, comment *string) (*models.LegacyVote, error) {
	args := m.Called(ctx, key, userID, email, voteType, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LegacyVote), args.Error(1)
}

func (m *MockLegacyVoteService) ForUser(ctx context.Context, userID uuid.UUID) (map[string]models.LegacyVote, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.LegacyVote), args.Error(1)
}

func (m *MockLegacyVoteService) Counts(ctx context.Context, key string) (votes.Tally, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(votes.Tally), args.Error(1)
}

func (m *MockLegacyVoteService) All(ctx context.Context) ([]models.LegacyVote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LegacyVote), args.Error(1)
}

func (m *MockLegacyVoteService) Statistics(ctx context.Context) ([]services.DestinationStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.DestinationStat), args.Error(1)
}

// MockFirstLoginTracker mocks firstlogin.Tracker
type MockFirstLoginTracker struct {
	mock.Mock
}

func (m *MockFirstLoginTracker) TodayEvents(ctx context.Context) ([]firstlogin.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]firstlogin.Event), args.Error(1)
}

func (m *MockFirstLoginTracker) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSSEHub mocks the SSE hub
type MockSSEHub struct {
	mock.Mock
}

func (m *MockSSEHub) Register(client *sse.Client) {
	m.Called(client)
}

func (m *MockSSEHub) Unregister(client *sse.Client) {
	m.Called(client)
}

func (m *MockSSEHub) SubscribeToAdventure(clientID string, adventureID uuid.UUID) bool {
	args := m.Called(clientID, adventureID)
	return args.Bool(0)
}

func (m *MockSSEHub) UnsubscribeFromAdventure(clientID string, adventureID uuid.UUID) {
	m.Called(clientID, adventureID)
}

func (m *MockSSEHub) OwnsClient(clientID string, userID uuid.UUID) bool {
	args := m.Called(clientID, userID)
	return args.Bool(0)
}
