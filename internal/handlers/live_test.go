package handlers

import (
	"testing"

	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/internal/sse"
	"github.com/dimitrije/tripvote-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupLive(t *testing.T) (*testutil.MockSSEHub, *testutil.MockAdventureService, *LiveHandler, *sse.Client) {
	t.Helper()
	log, _ := test.NewNullLogger()
	mockHub := new(testutil.MockSSEHub)
	mockAdventures := new(testutil.MockAdventureService)
	client := &sse.Client{ID: uuid.NewString(), UserID: uuid.New(), Adventures: map[uuid.UUID]bool{}}
	return mockHub, mockAdventures, NewLiveHandler(mockHub, mockAdventures, log), client
}

func TestLiveHandler_PingAndUnknown(t *testing.T) {
	_, _, h, client := setupLive(t)

	assert.Equal(t, "pong", h.handle(client, false, LiveMessage{Action: "ping"})["type"])

	reply := h.handle(client, false, LiveMessage{Action: "dance"})
	assert.Equal(t, "error", reply["type"])
	assert.Equal(t, "dance", reply["ref_action"])
}

func TestLiveHandler_Subscribe(t *testing.T) {
	mockHub, mockAdventures, h, client := setupLive(t)
	advID := uuid.New()

	mockAdventures.On("Membership", mock.Anything, advID, client.UserID).Return(services.Membership{IsCreator: true}, nil)
	mockHub.On("SubscribeToAdventure", client.ID, advID).Return(true)

	reply := h.handle(client, false, LiveMessage{Action: "subscribe", AdventureID: advID.String()})

	assert.Equal(t, "subscribed", reply["type"])
	assert.Equal(t, advID.String(), reply["adventure_id"])
	mockHub.AssertExpectations(t)
}

func TestLiveHandler_Subscribe_Denied(t *testing.T) {
	mockHub, mockAdventures, h, client := setupLive(t)
	advID := uuid.New()
	mockAdventures.On("Membership", mock.Anything, advID, client.UserID).Return(services.Membership{}, nil)

	reply := h.handle(client, false, LiveMessage{Action: "subscribe", AdventureID: advID.String()})
	assert.Equal(t, "error", reply["type"])

	mockHub.On("SubscribeToAdventure", client.ID, advID).Return(true)
	reply = h.handle(client, true, LiveMessage{Action: "subscribe", AdventureID: advID.String()})
	assert.Equal(t, "subscribed", reply["type"])
}

func TestLiveHandler_Unsubscribe(t *testing.T) {
	mockHub, _, h, client := setupLive(t)
	advID := uuid.New()
	mockHub.On("UnsubscribeFromAdventure", client.ID, advID).Return()

	assert.Equal(t, "unsubscribed", h.handle(client, false, LiveMessage{Action: "unsubscribe", AdventureID: advID.String()})["type"])
	assert.Equal(t, "error", h.handle(client, false, LiveMessage{Action: "unsubscribe", AdventureID: "x"})["type"])
}
