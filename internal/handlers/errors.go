package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

var (
	validationErrors = []error{
		services.ErrInvalidEmail,
		services.ErrWeakPassword,
		services.ErrNameRequired,
		services.ErrPlaceRequired,
		services.ErrInvalidVoteType,
		services.ErrCommentRequired,
	}
	notFoundErrors = []error{
		services.ErrUserNotFound,
		services.ErrAdventureNotFound,
		services.ErrDestinationNotFound,
		services.ErrParticipantNotFound,
		services.ErrInvitationNotFound,
		services.ErrNotificationNotFound,
		services.ErrUnknownDestination,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError maps service sentinels to status codes. Anything unrecognized is
// reported as a retryable server error without leaking the cause.
func writeError(c *drift.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrAlreadyParticipant):
		_ = c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidRefreshToken):
		c.Unauthorized(err.Error())
	case isAny(err, validationErrors):
		c.BadRequest(err.Error())
	case isAny(err, notFoundErrors):
		c.NotFound(err.Error())
	default:
		c.InternalServerError(fallback + ", please retry")
	}
}
