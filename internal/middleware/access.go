package middleware

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const AccessKey = "access"

// AccessResolver computes the effective access of an authenticated identity.
type AccessResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, email string) access.Effective
}

// Access must run after Auth.
func Access(resolver AccessResolver) drift.HandlerFunc {
	return func(c *drift.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			c.Unauthorized("not authenticated")
			return
		}

		c.Set(AccessKey, resolver.Resolve(c.Request.Context(), userID, GetUserEmail(c)))
		c.Next()
	}
}

// GetAccess returns the anonymous view when Access did not run.
func GetAccess(c *drift.Context) access.Effective {
	if v, ok := c.Get(AccessKey); ok {
		if eff, ok := v.(access.Effective); ok {
			return eff
		}
	}
	return access.Anonymous()
}

func RequirePermission(p access.Permission) drift.HandlerFunc {
	return func(c *drift.Context) {
		if !GetAccess(c).HasPermission(p) {
			c.Forbidden("missing permission: " + string(p))
			return
		}
		c.Next()
	}
}

func RequireSuperAdmin() drift.HandlerFunc {
	return func(c *drift.Context) {
		if !GetAccess(c).IsSuperAdmin {
			c.Forbidden("superadmin only")
			return
		}
		c.Next()
	}
}
