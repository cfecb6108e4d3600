package handlers

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ParticipantHandler struct {
	adventureService   AdventureServiceInterface
	participantService ParticipantServiceInterface
	gate               adventureGate
}

func NewParticipantHandler(adventureService AdventureServiceInterface, participantService ParticipantServiceInterface) *ParticipantHandler {
	return &ParticipantHandler{
		adventureService:   adventureService,
		participantService: participantService,
		gate:               adventureGate{adventures: adventureService},
	}
}

func (h *ParticipantHandler) List(c *drift.Context) {
	adventureID, ok := parseIDParam(c, "adventureId", "adventure")
	if !ok {
		return
	}
	if !h.gate.allow(c, adventureID, gateView) {
		return
	}

	ctx := context.Background()

	adventure, err := h.adventureService.Get(ctx, adventureID)
	if err != nil {
		writeError(c, err, "failed to load adventure")
		return
	}

	participants, err := h.participantService.List(ctx, adventure)
	if err != nil {
		c.InternalServerError("failed to list participants, please retry")
		return
	}

	_ = c.JSON(200, participants)
}

func (h *ParticipantHandler) Add(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	adventureID, ok := parseIDParam(c, "adventureId", "adventure")
	if !ok {
		return
	}

	var req dto.AddParticipantRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}

	if !h.gate.allow(c, adventureID, gateEdit) {
		return
	}

	participant, err := h.participantService.Add(context.Background(), services.AddParticipantInput{
		AdventureID:   adventureID,
		Email:         req.Email,
		InvitedBy:     userID,
		CurrentEmails: req.CurrentEmails,
	})
	if err != nil {
		writeError(c, err, "failed to add participant")
		return
	}

	_ = c.JSON(201, participant)
}

func (h *ParticipantHandler) Remove(c *drift.Context) {
	adventureID, ok := parseIDParam(c, "adventureId", "adventure")
	if !ok {
		return
	}
	participantID, ok := parseIDParam(c, "participantId", "participant")
	if !ok {
		return
	}
	if !h.gate.allow(c, adventureID, gateEdit) {
		return
	}

	if err := h.participantService.Remove(context.Background(), adventureID, participantID); err != nil {
		writeError(c, err, "failed to remove participant")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "participant removed"})
}

func (h *ParticipantHandler) Invitations(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitations, err := h.participantService.Invitations(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to list invitations, please retry")
		return
	}
	if invitations == nil {
		invitations = []models.Invitation{}
	}

	_ = c.JSON(200, invitations)
}

func (h *ParticipantHandler) Accept(c *drift.Context) {
	h.answer(c, h.participantService.Accept, "invitation accepted")
}

func (h *ParticipantHandler) Decline(c *drift.Context) {
	h.answer(c, h.participantService.Decline, "invitation declined")
}

func (h *ParticipantHandler) answer(c *drift.Context, fn func(ctx context.Context, participantID, userID uuid.UUID) error, message string) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	participantID, ok := parseIDParam(c, "invitationId", "invitation")
	if !ok {
		return
	}

	if err := fn(context.Background(), participantID, userID); err != nil {
		writeError(c, err, "failed to answer invitation")
		return
	}

	_ = c.JSON(200, map[string]string{"message": message})
}
