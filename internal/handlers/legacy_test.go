package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dimitrije/tripvote-api/internal/catalog"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/internal/votes"
	"github.com/dimitrije/tripvote-api/pkg/dto"
	"github.com/dimitrije/tripvote-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupLegacyApp(t *testing.T) (*testutil.MockLegacyVoteService, http.Handler) {
	t.Helper()
	mockLegacy := new(testutil.MockLegacyVoteService)
	handler := NewLegacyHandler(mockLegacy)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Get("/destinations", handler.ListDestinations)
	app.Get("/destinations/:key", handler.GetDestination)

	protected := app.Group("")
	for _, mw := range stack(plainUser()) {
		protected.Use(mw)
	}
	protected.Get("/destinations/:key/results", handler.Results)
	protected.Post("/destinations/:key/vote", handler.Vote)
	protected.Get("/me/destination-votes", handler.MyVotes)
	return mockLegacy, app
}

func TestLegacyHandler_ListDestinations(t *testing.T) {
	_, app := setupLegacyApp(t)

	rec := do(app, http.MethodGet, "/destinations", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []catalog.Destination
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, len(catalog.Order))
	assert.Equal(t, "seville", resp[0].Key)
}

func TestLegacyHandler_GetDestination(t *testing.T) {
	_, app := setupLegacyApp(t)

	rec := do(app, http.MethodGet, "/destinations/london", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), catalog.Name("london"))

	rec = do(app, http.MethodGet, "/destinations/atlantis", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLegacyHandler_Vote(t *testing.T) {
	mockLegacy, app := setupLegacyApp(t)
	userID := uuid.New()

	mockLegacy.On("Cast", mock.Anything, "geneva", userID, "ada@example.com", "yes", (*string)(nil)).
		Return(&models.LegacyVote{ID: uuid.New(), DestinationID: "geneva", UserID: userID, VoteType: "yes"}, nil)
	mockLegacy.On("Cast", mock.Anything, "atlantis", userID, "ada@example.com", "yes", (*string)(nil)).
		Return(nil, services.ErrUnknownDestination)

	rec := do(app, http.MethodPost, "/destinations/geneva/vote", bearer(t, userID, "ada@example.com"), dto.LegacyVoteRequest{VoteType: "yes"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(app, http.MethodPost, "/destinations/atlantis/vote", bearer(t, userID, "ada@example.com"), dto.LegacyVoteRequest{VoteType: "yes"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(app, http.MethodPost, "/destinations/geneva/vote", "", dto.LegacyVoteRequest{VoteType: "yes"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLegacyHandler_Results(t *testing.T) {
	mockLegacy, app := setupLegacyApp(t)
	mockLegacy.On("Counts", mock.Anything, "seville").Return(votes.Tally{DestinationID: "seville", Total: 3, Yes: 2, No: 1}, nil)

	rec := do(app, http.MethodGet, "/destinations/seville/results", bearer(t, uuid.New(), "a@example.com"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"destination_id":"seville","yes":2,"no":1,"total":3,"percentage":67}`, rec.Body.String())
}

func TestLegacyHandler_MyVotes(t *testing.T) {
	mockLegacy, app := setupLegacyApp(t)
	userID := uuid.New()
	mockLegacy.On("ForUser", mock.Anything, userID).Return(map[string]models.LegacyVote{
		"london": {DestinationID: "london", VoteType: "no"},
	}, nil)

	rec := do(app, http.MethodGet, "/me/destination-votes", bearer(t, userID, "a@example.com"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"london"`)
}
