package handlers

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type AdventureHandler struct {
	adventureService   AdventureServiceInterface
	detailService      DetailServiceInterface
	destinationService DestinationServiceInterface
	voteService        VoteServiceInterface
	gate               adventureGate
}

func NewAdventureHandler(
	adventureService AdventureServiceInterface,
	detailService DetailServiceInterface,
	destinationService DestinationServiceInterface,
	voteService VoteServiceInterface,
) *AdventureHandler {
	return &AdventureHandler{
		adventureService:   adventureService,
		detailService:      detailService,
		destinationService: destinationService,
		voteService:        voteService,
		gate:               adventureGate{adventures: adventureService},
	}
}

func toDestinationInput(req dto.DestinationRequest) services.DestinationInput {
	in := services.DestinationInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
	}
	for _, p := range req.Places {
		in.Places = append(in.Places, services.PlaceInput{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	return in
}

func (h *AdventureHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	adventures, err := h.adventureService.List(context.Background(), userID, middleware.GetAccess(c).IsSuperAdmin)
	if err != nil {
		c.InternalServerError("failed to list adventures, please retry")
		return
	}
	if adventures == nil {
		adventures = []models.Adventure{}
	}

	_ = c.JSON(200, adventures)
}

func (h *AdventureHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if !middleware.GetAccess(c).HasPermission(access.PermIsCreator) {
		c.Forbidden("missing permission: " + string(access.PermIsCreator))
		return
	}

	var req dto.CreateAdventureRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	in := services.CreateAdventureInput{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}
	for _, d := range req.Destinations {
		in.Destinations = append(in.Destinations, toDestinationInput(d))
	}

	result, err := h.adventureService.Create(context.Background(), in)
	if err != nil {
		writeError(c, err, "failed to create adventure")
		return
	}

	_ = c.JSON(201, result)
}

func (h *AdventureHandler) Get(c *drift.Context) {
	adventureID, ok := parseIDParam(c, "adventureId", "adventure")
	if !ok {
		return
	}
	if !h.gate.allow(c, adventureID, gateView) {
		return
	}

	detail, err := h.detailService.Get(context.Background(), adventureID, middleware.GetUserID(c))
	if err != nil {
		writeError(c, err, "failed to load adventure")
		return
	}

	_ = c.JSON(200, detail)
}

func (h *AdventureHandler) Update(c *drift.Context) {
	adventureID, ok := parseIDParam(c, "adventureId", "adventure")
	if !ok {
		return
	}

	var req dto.UpdateAdventureRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if !h.gate.allow(c, adventureID, gateEdit) {
		return
	}

	adventure, err := h.adventureService.Update(context.Background(), adventureID, req.Name, req.Description)
	if err != nil {
		writeError(c, err, "failed to update adventure")
		return
	}

	_ = c.JSON(200, adventure)
}

func (h *AdventureHandler) Delete(c *drift.Context) {
	adventureID, ok := parseIDParam(c, "adventureId", "adventure")
	if !ok {
		return
	}
	if !h.gate.allow(c, adventureID, gateEdit) {
		return
	}

	if err := h.adventureService.Deactivate(context.Background(), adventureID); err != nil {
		writeError(c, err, "failed to delete adventure")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "adventure deleted"})
}

func (h *AdventureHandler) AddDestination(c *drift.Context) {
	adventureID, ok := parseIDParam(c, "adventureId", "adventure")
	if !ok {
		return
	}

	var req dto.DestinationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if !h.gate.allow(c, adventureID, gateEdit) {
		return
	}

	dest, err := h.destinationService.Add(context.Background(), adventureID, toDestinationInput(req))
	if err != nil {
		writeError(c, err, "failed to add destination")
		return
	}

	_ = c.JSON(201, dest)
}

// destinationAdventure resolves the adventure of the destination in the path
// and checks the caller against it.
func (h *AdventureHandler) destinationAdventure(c *drift.Context, level gateLevel) (uuid.UUID, bool) {
	destinationID, ok := parseIDParam(c, "destinationId", "destination")
	if !ok {
		return uuid.Nil, false
	}

	adventureID, err := h.destinationService.AdventureOf(context.Background(), destinationID)
	if err != nil {
		writeError(c, err, "failed to load destination")
		return uuid.Nil, false
	}
	if !h.gate.allow(c, adventureID, level) {
		return uuid.Nil, false
	}
	return destinationID, true
}

func (h *AdventureHandler) EditDestination(c *drift.Context) {
	var req dto.DestinationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	destinationID, ok := h.destinationAdventure(c, gateEdit)
	if !ok {
		return
	}

	dest, err := h.destinationService.Edit(context.Background(), destinationID, toDestinationInput(req))
	if err != nil {
		writeError(c, err, "failed to update destination")
		return
	}

	_ = c.JSON(200, dest)
}

func (h *AdventureHandler) DeleteDestination(c *drift.Context) {
	destinationID, ok := h.destinationAdventure(c, gateEdit)
	if !ok {
		return
	}

	if err := h.destinationService.Delete(context.Background(), destinationID); err != nil {
		writeError(c, err, "failed to delete destination")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "destination deleted"})
}

func (h *AdventureHandler) CastVote(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CastVoteRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	destinationID, err := uuid.Parse(c.Param("destinationId"))
	if err != nil {
		c.BadRequest("invalid destination id")
		return
	}

	ctx := context.Background()

	adventureID, err := h.destinationService.AdventureOf(ctx, destinationID)
	if err != nil {
		writeError(c, err, "failed to load destination")
		return
	}
	if !h.gate.allow(c, adventureID, gateView) {
		return
	}

	vote, err := h.voteService.Cast(ctx, adventureID, destinationID, userID, req.VoteType, req.Comment)
	if err != nil {
		writeError(c, err, "failed to save vote")
		return
	}

	_ = c.JSON(200, vote)
}
