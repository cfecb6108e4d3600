package handlers

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/catalog"
	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// LegacyHandler serves the fixed destination catalog and its flat votes.
type LegacyHandler struct {
	legacyVoteService LegacyVoteServiceInterface
}

func NewLegacyHandler(legacyVoteService LegacyVoteServiceInterface) *LegacyHandler {
	return &LegacyHandler{legacyVoteService: legacyVoteService}
}

func (h *LegacyHandler) ListDestinations(c *drift.Context) {
	_ = c.JSON(200, catalog.All())
}

func (h *LegacyHandler) GetDestination(c *drift.Context) {
	dest, ok := catalog.Get(c.Param("key"))
	if !ok {
		c.NotFound("unknown destination")
		return
	}

	_ = c.JSON(200, dest)
}

func (h *LegacyHandler) Results(c *drift.Context) {
	tally, err := h.legacyVoteService.Counts(context.Background(), c.Param("key"))
	if err != nil {
		writeError(c, err, "failed to load results")
		return
	}

	_ = c.JSON(200, map[string]any{
		"destination_id": tally.DestinationID,
		"yes":            tally.Yes,
		"no":             tally.No,
		"total":          tally.Total,
		"percentage":     tally.Percentage(),
	})
}

func (h *LegacyHandler) Vote(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.LegacyVoteRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	vote, err := h.legacyVoteService.Cast(context.Background(), c.Param("key"), userID, middleware.GetUserEmail(c), req.VoteType, req.Comment)
	if err != nil {
		writeError(c, err, "failed to save vote")
		return
	}

	_ = c.JSON(200, vote)
}

func (h *LegacyHandler) MyVotes(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	votes, err := h.legacyVoteService.ForUser(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to load votes, please retry")
		return
	}

	_ = c.JSON(200, votes)
}
