package services

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type roleResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, email string) access.Resolution
}

type overrideSource interface {
	Get(ctx context.Context, userID uuid.UUID) (access.Overrides, error)
}

// AccessService computes the effective access of an authenticated identity.
type AccessService struct {
	roles roleResolver
	prefs overrideSource
	log   logrus.FieldLogger
}

func NewAccessService(roles roleResolver, prefs overrideSource, log logrus.FieldLogger) *AccessService {
	return &AccessService{roles: roles, prefs: prefs, log: log}
}

// Resolve applies no overrides when the preferences cannot be read.
func (s *AccessService) Resolve(ctx context.Context, userID uuid.UUID, email string) access.Effective {
	actual := s.roles.Resolve(ctx, userID, email)

	overrides, err := s.prefs.Get(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to read role-mode preferences")
		overrides = access.Overrides{}
	}
	return access.Compute(actual, overrides)
}
