package integration

import (
	"context"
	"testing"

	"github.com/dimitrije/tripvote-api/internal/config"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adventureStack struct {
	adventures   *services.AdventureService
	destinations *services.DestinationService
	votes        *services.VoteService
	participants *services.ParticipantService
	notes        *services.NotificationService
	detail       *services.DetailService
}

func newAdventureStack(tdb *testutil.TestDB) adventureStack {
	log := nullLogger()
	hub := runningHub()
	users := services.NewUserService(tdb.DB, log)
	notes := services.NewNotificationService(tdb.DB)
	s := adventureStack{
		adventures:   services.NewAdventureService(tdb.DB, log),
		destinations: services.NewDestinationService(tdb.DB),
		votes:        services.NewVoteService(tdb.DB, hub),
		participants: services.NewParticipantService(tdb.DB, users, notes, services.NewEmailService(config.SMTPConfig{}), hub, "http://localhost:5173", log),
		notes:        notes,
	}
	s.detail = services.NewDetailService(s.adventures, s.destinations, s.votes, s.participants)
	return s
}

func tokyo() services.DestinationInput {
	return services.DestinationInput{
		Name:   " Tokyo ",
		Tags:   []string{"city", " "},
		Places: []services.PlaceInput{{Name: "Shibuya"}, {Name: "  "}},
	}
}

func TestAdventureService_Integration_CreateLinksOwner(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	s := newAdventureStack(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	stranger := fixtures.CreateUser(t)

	res, err := s.adventures.Create(ctx, services.CreateAdventureInput{
		Name:         "Japan 2027",
		CreatedBy:    owner.ID,
		Destinations: []services.DestinationInput{tokyo()},
	})
	require.NoError(t, err)
	assert.True(t, res.CreatorLinked)
	assert.True(t, res.ParticipantLinked)
	require.Len(t, res.Destinations, 1)
	assert.Equal(t, "Tokyo", res.Destinations[0].Name)
	assert.Equal(t, []string{"city"}, res.Destinations[0].Tags)
	assert.Len(t, res.Destinations[0].Places, 1)

	m, err := s.adventures.Membership(ctx, res.Adventure.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, m.IsCreator)
	assert.True(t, m.CanView())

	m, err = s.adventures.Membership(ctx, res.Adventure.ID, stranger.ID)
	require.NoError(t, err)
	assert.False(t, m.CanView())

	mine, err := s.adventures.List(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := s.adventures.List(ctx, stranger.ID, false)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	all, err := s.adventures.List(ctx, stranger.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.adventures.Deactivate(ctx, res.Adventure.ID))
	_, err = s.adventures.Get(ctx, res.Adventure.ID)
	assert.ErrorIs(t, err, services.ErrAdventureNotFound)
}

func TestAdventureService_Integration_CreateRejectsPlacelessDestination(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	s := newAdventureStack(tdb)

	owner := fixtures.CreateUser(t)

	_, err := s.adventures.Create(context.Background(), services.CreateAdventureInput{
		Name:         "Nowhere",
		CreatedBy:    owner.ID,
		Destinations: []services.DestinationInput{{Name: "Empty"}},
	})
	assert.ErrorIs(t, err, services.ErrPlaceRequired)

	list, err := s.adventures.List(context.Background(), owner.ID, true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestVoteService_Integration_OneVotePerUser(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	s := newAdventureStack(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	adventure := fixtures.CreateAdventure(t, owner)
	dest, err := s.destinations.Add(ctx, adventure.ID, tokyo())
	require.NoError(t, err)

	_, err = s.votes.Cast(ctx, adventure.ID, dest.ID, owner.ID, "yes", nil)
	require.NoError(t, err)

	comment := "shorter stay"
	v, err := s.votes.Cast(ctx, adventure.ID, dest.ID, owner.ID, "proponi", &comment)
	require.NoError(t, err)
	assert.Equal(t, "proponi", v.VoteType)

	_, err = s.votes.Cast(ctx, adventure.ID, dest.ID, owner.ID, "proponi", nil)
	assert.ErrorIs(t, err, services.ErrCommentRequired)

	all, err := s.votes.List(ctx, adventure.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "proponi", all[0].VoteType)

	require.NoError(t, s.destinations.Delete(ctx, dest.ID))
	all, err = s.votes.List(ctx, adventure.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestParticipantService_Integration_InviteAndAccept(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	s := newAdventureStack(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	guest := fixtures.CreateUser(t)
	adventure := fixtures.CreateAdventure(t, owner)

	p, err := s.participants.Add(ctx, services.AddParticipantInput{
		AdventureID: adventure.ID,
		Email:       guest.Email,
		InvitedBy:   owner.ID,
	})
	require.NoError(t, err)
	assert.True(t, p.IsPending())

	_, err = s.participants.Add(ctx, services.AddParticipantInput{AdventureID: adventure.ID, Email: guest.Email, InvitedBy: owner.ID})
	assert.ErrorIs(t, err, services.ErrAlreadyParticipant)

	_, err = s.participants.Add(ctx, services.AddParticipantInput{AdventureID: adventure.ID, Email: "ghost@example.com", InvitedBy: owner.ID})
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	unread, err := s.notes.UnreadCount(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	m, err := s.adventures.Membership(ctx, adventure.ID, guest.ID)
	require.NoError(t, err)
	assert.False(t, m.CanView())

	invitations, err := s.participants.Invitations(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 1)

	require.NoError(t, s.participants.Accept(ctx, p.ID, guest.ID))
	assert.ErrorIs(t, s.participants.Accept(ctx, p.ID, guest.ID), services.ErrInvitationNotFound)

	m, err = s.adventures.Membership(ctx, adventure.ID, guest.ID)
	require.NoError(t, err)
	assert.True(t, m.CanView())

	detail, err := s.detail.Get(ctx, adventure.ID, guest.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Participants, 2)
	assert.Len(t, detail.Creators, 1)
}

func TestParticipantService_Integration_Decline(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	s := newAdventureStack(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	guest := fixtures.CreateUser(t)
	adventure := fixtures.CreateAdventure(t, owner)
	id := fixtures.AddParticipant(t, adventure, guest, models.InvitationPending)

	assert.ErrorIs(t, s.participants.Decline(ctx, id, owner.ID), services.ErrInvitationNotFound)
	require.NoError(t, s.participants.Decline(ctx, id, guest.ID))

	m, err := s.adventures.Membership(ctx, adventure.ID, guest.ID)
	require.NoError(t, err)
	assert.Nil(t, m.Participant)
}
