package handlers

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type gateLevel int

const (
	gateView gateLevel = iota
	gateEdit
)

// adventureGate decides whether the caller may see or change one adventure.
type adventureGate struct {
	adventures AdventureServiceInterface
}

// allow writes the error response and returns false when the caller is turned
// away. Hidden adventures answer 404 so their existence is not revealed.
func (g adventureGate) allow(c *drift.Context, adventureID uuid.UUID, level gateLevel) bool {
	membership, err := g.adventures.Membership(context.Background(), adventureID, middleware.GetUserID(c))
	if err != nil {
		writeError(c, err, "failed to load adventure")
		return false
	}

	if middleware.GetAccess(c).IsSuperAdmin {
		return true
	}

	if !membership.CanView() {
		c.NotFound(services.ErrAdventureNotFound.Error())
		return false
	}
	if level == gateEdit && !membership.IsCreator {
		c.Forbidden("only the adventure creators can change it")
		return false
	}
	return true
}

func parseIDParam(c *drift.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.BadRequest("invalid " + label + " id")
		return uuid.Nil, false
	}
	return id, true
}
