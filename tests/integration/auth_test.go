package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/firstlogin"
	"github.com/dimitrije/tripvote-api/internal/kvstore"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authStack struct {
	auth    *services.AuthService
	prefs   *services.PreferenceService
	tracker *firstlogin.Tracker
}

func newAuthStack(tdb *testutil.TestDB) authStack {
	log := nullLogger()
	store := kvstore.NewPostgres(tdb.DB)
	users := services.NewUserService(tdb.DB, log)
	tokens := services.NewTokenService(tdb.DB)
	jwt := services.NewJWTService("integration-secret", 15*time.Minute, 24*time.Hour)
	prefs := services.NewPreferenceService(store)
	tracker := firstlogin.NewTracker(store, log)
	return authStack{
		auth:    services.NewAuthService(users, tokens, jwt, tracker, prefs, runningHub(), log),
		prefs:   prefs,
		tracker: tracker,
	}
}

func TestAuthService_Integration_SignUpAndSignIn(t *testing.T) {
	tdb := setupTest(t)
	s := newAuthStack(tdb)
	ctx := context.Background()

	signup, err := s.auth.SignUp(ctx, "  Ada@Example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", signup.User.Email)
	assert.True(t, signup.FirstLogin)

	_, err = s.auth.SignUp(ctx, "ada@example.com", "another1")
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	signin, err := s.auth.SignIn(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.False(t, signin.FirstLogin)

	_, err = s.auth.SignIn(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	events, err := s.tracker.TodayEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ada@example.com", events[0].User)
}

func TestAuthService_Integration_RefreshWorksOnce(t *testing.T) {
	tdb := setupTest(t)
	s := newAuthStack(tdb)
	ctx := context.Background()

	session, err := s.auth.SignUp(ctx, "grace@example.com", "secret123")
	require.NoError(t, err)

	refreshed, err := s.auth.Refresh(ctx, session.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.Tokens.RefreshToken, refreshed.Tokens.RefreshToken)

	_, err = s.auth.Refresh(ctx, session.Tokens.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestAuthService_Integration_SignOutClearsPreferences(t *testing.T) {
	tdb := setupTest(t)
	s := newAuthStack(tdb)
	ctx := context.Background()

	session, err := s.auth.SignUp(ctx, "linus@example.com", "secret123")
	require.NoError(t, err)

	userRole := access.RoleUser
	require.NoError(t, s.prefs.SetPreviewMode(ctx, session.User.ID, true))
	require.NoError(t, s.prefs.SetSelectedRole(ctx, session.User.ID, &userRole))

	require.NoError(t, s.auth.SignOut(ctx, session.Tokens.RefreshToken))

	overrides, err := s.prefs.Get(ctx, session.User.ID)
	require.NoError(t, err)
	assert.False(t, overrides.PreviewMode)
	assert.Nil(t, overrides.SelectedRole)

	_, err = s.auth.Refresh(ctx, session.Tokens.RefreshToken)
	assert.Error(t, err)
}
