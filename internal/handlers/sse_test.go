package handlers

import (
	"net/http"
	"testing"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupSSEApp(t *testing.T, eff access.Effective) (*testutil.MockSSEHub, *testutil.MockAdventureService, http.Handler) {
	t.Helper()
	mockHub := new(testutil.MockSSEHub)
	mockAdventures := new(testutil.MockAdventureService)
	handler := NewSSEHandler(mockHub, mockAdventures)

	app := drift.New()
	for _, mw := range stack(eff) {
		app.Use(mw)
	}
	app.Post("/sse/:clientId/subscribe/:adventureId", handler.Subscribe)
	app.Post("/sse/:clientId/unsubscribe/:adventureId", handler.Unsubscribe)
	return mockHub, mockAdventures, app
}

func TestSSEHandler_Subscribe_Success(t *testing.T) {
	mockHub, mockAdventures, app := setupSSEApp(t, plainUser())
	userID, advID := uuid.New(), uuid.New()
	clientID := uuid.NewString()

	mockHub.On("OwnsClient", clientID, userID).Return(true)
	mockAdventures.On("Membership", mock.Anything, advID, userID).Return(services.Membership{Participant: accepted()}, nil)
	mockHub.On("SubscribeToAdventure", clientID, advID).Return(true)

	rec := do(app, http.MethodPost, "/sse/"+clientID+"/subscribe/"+advID.String(), bearer(t, userID, "a@example.com"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "subscribed to adventure")
	mockHub.AssertExpectations(t)
}

func TestSSEHandler_Subscribe_ForeignClient(t *testing.T) {
	mockHub, mockAdventures, app := setupSSEApp(t, superAdmin())
	userID := uuid.New()
	clientID := uuid.NewString()
	mockHub.On("OwnsClient", clientID, userID).Return(false)

	rec := do(app, http.MethodPost, "/sse/"+clientID+"/subscribe/"+uuid.NewString(), bearer(t, userID, "a@example.com"), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "client not found")
	mockAdventures.AssertNotCalled(t, "Membership", mock.Anything, mock.Anything, mock.Anything)
}

func TestSSEHandler_Subscribe_HiddenAdventure(t *testing.T) {
	mockHub, mockAdventures, app := setupSSEApp(t, plainUser())
	userID, advID := uuid.New(), uuid.New()
	clientID := uuid.NewString()

	mockHub.On("OwnsClient", clientID, userID).Return(true)
	mockAdventures.On("Membership", mock.Anything, advID, userID).Return(services.Membership{Participant: pending()}, nil)

	rec := do(app, http.MethodPost, "/sse/"+clientID+"/subscribe/"+advID.String(), bearer(t, userID, "a@example.com"), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockHub.AssertNotCalled(t, "SubscribeToAdventure", mock.Anything, mock.Anything)
}

func TestSSEHandler_Subscribe_InvalidAdventureID(t *testing.T) {
	mockHub, _, app := setupSSEApp(t, plainUser())
	userID := uuid.New()
	clientID := uuid.NewString()
	mockHub.On("OwnsClient", clientID, userID).Return(true)

	rec := do(app, http.MethodPost, "/sse/"+clientID+"/subscribe/invalid-uuid", bearer(t, userID, "a@example.com"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid adventure id")
}

func TestSSEHandler_Unsubscribe(t *testing.T) {
	mockHub, _, app := setupSSEApp(t, plainUser())
	userID, advID := uuid.New(), uuid.New()
	clientID := uuid.NewString()

	mockHub.On("OwnsClient", clientID, userID).Return(true)
	mockHub.On("UnsubscribeFromAdventure", clientID, advID).Return()

	rec := do(app, http.MethodPost, "/sse/"+clientID+"/unsubscribe/"+advID.String(), bearer(t, userID, "a@example.com"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsubscribed from adventure")
	mockHub.AssertExpectations(t)
}

func TestSSEHandler_NotAuthenticated(t *testing.T) {
	_, _, app := setupSSEApp(t, plainUser())

	rec := do(app, http.MethodPost, "/sse/abc/subscribe/"+uuid.NewString(), "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
