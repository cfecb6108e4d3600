package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	roleCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripvote_role_cache_hits_total",
		Help: "Role resolutions served from the cache.",
	})
	roleCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripvote_role_cache_misses_total",
		Help: "Role resolutions that went to the database.",
	})
	roleResolutionsDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripvote_role_resolutions_degraded_total",
		Help: "Role resolutions that fell back to defaults after a store error.",
	})
)

// RoleService resolves stored roles and permissions and lets superadmins edit them.
type RoleService struct {
	db              *database.DB
	superAdminEmail string
	cache           *expirable.LRU[uuid.UUID, access.Resolution]
	log             logrus.FieldLogger
}

func NewRoleService(db *database.DB, superAdminEmail string, cacheSize int, cacheTTL time.Duration, log logrus.FieldLogger) *RoleService {
	return &RoleService{
		db:              db,
		superAdminEmail: normalizeEmail(superAdminEmail),
		cache:           expirable.NewLRU[uuid.UUID, access.Resolution](cacheSize, nil, cacheTTL),
		log:             log,
	}
}

// Resolve never fails. Store errors degrade to the ordinary user role and an
// empty permission set, and degraded results are not cached.
func (s *RoleService) Resolve(ctx context.Context, userID uuid.UUID, email string) access.Resolution {
	if s.superAdminEmail != "" && normalizeEmail(email) == s.superAdminEmail {
		return access.Resolution{
			Role:        access.RoleSuperAdmin,
			Permissions: access.NewPermissionSet(access.AllPermissions()...),
		}
	}

	if res, ok := s.cache.Get(userID); ok {
		roleCacheHits.Inc()
		return res
	}
	roleCacheMisses.Inc()

	res, degraded := s.load(ctx, userID)
	if degraded {
		roleResolutionsDegraded.Inc()
		return res
	}
	s.cache.Add(userID, res)
	return res
}

func (s *RoleService) load(ctx context.Context, userID uuid.UUID) (access.Resolution, bool) {
	log := s.log.WithField("user_id", userID)
	degraded := false

	role := access.RoleUser
	var stored string
	err := s.db.Pool.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&stored)
	switch {
	case err == nil:
		if r, ok := access.ParseRole(stored); ok {
			role = r
		} else {
			log.WithField("role", stored).Warn("unknown stored role, using user")
		}
	case database.IsNotFound(err):
	default:
		log.WithError(err).WithField("kind", database.Classify(err)).Warn("failed to read role, using user")
		degraded = true
	}

	if role == access.RoleSuperAdmin {
		return access.Resolution{
			Role:        role,
			Permissions: access.NewPermissionSet(access.AllPermissions()...),
		}, degraded
	}

	perms, err := s.loadPermissions(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("kind", database.Classify(err)).Warn("failed to read permissions, using none")
		return access.Resolution{Role: role, Permissions: access.PermissionSet{}}, true
	}
	return access.Resolution{Role: role, Permissions: perms}, degraded
}

func (s *RoleService) loadPermissions(ctx context.Context, userID uuid.UUID) (access.PermissionSet, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT permission FROM user_permissions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := access.PermissionSet{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if p, ok := access.ParsePermission(name); ok {
			set[p] = struct{}{}
		}
	}
	return set, rows.Err()
}

// Invalidate drops the cached resolution of one user.
func (s *RoleService) Invalidate(userID uuid.UUID) {
	s.cache.Remove(userID)
}

func (s *RoleService) ListUsers(ctx context.Context) ([]models.UserAccess, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT u.id, u.email, COALESCE(r.role, 'user'),
			COALESCE(array_agg(p.permission ORDER BY p.permission) FILTER (WHERE p.permission IS NOT NULL), '{}'),
			u.created_at
		FROM users u
		LEFT JOIN user_roles r ON r.user_id = u.id
		LEFT JOIN user_permissions p ON p.user_id = u.id
		GROUP BY u.id, u.email, r.role, u.created_at
		ORDER BY u.email
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.UserAccess
	for rows.Next() {
		var u models.UserAccess
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.Permissions, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		// The configured superadmin email wins over whatever is stored.
		if s.superAdminEmail != "" && strings.EqualFold(u.Email, s.superAdminEmail) {
			u.Role = string(access.RoleSuperAdmin)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetRoleAndPermissions replaces the stored grant of a user.
func (s *RoleService) SetRoleAndPermissions(ctx context.Context, userID uuid.UUID, role access.Role, perms []access.Permission) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
	`, userID, string(role))
	if err != nil {
		if database.Classify(err) == database.KindForeignKey {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to set role: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_permissions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear permissions: %w", err)
	}

	for _, p := range access.NewPermissionSet(perms...).Slice() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2)
		`, userID, string(p)); err != nil {
			return fmt.Errorf("failed to grant permission: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.Invalidate(userID)
	return nil
}
