package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/kvstore"
	"github.com/google/uuid"
)

const (
	prefPreviewMode  = "previewMode"
	prefSelectedRole = "selectedRole"
)

// PreferenceService keeps the role-mode overrides of each identity in its own
// key/value namespace so one user's flags never apply to another.
type PreferenceService struct {
	store kvstore.Store
}

func NewPreferenceService(store kvstore.Store) *PreferenceService {
	return &PreferenceService{store: store}
}

func (s *PreferenceService) scope(userID uuid.UUID) kvstore.Store {
	return kvstore.Namespace(s.store, "user/"+userID.String()+"/")
}

func (s *PreferenceService) Get(ctx context.Context, userID uuid.UUID) (access.Overrides, error) {
	st := s.scope(userID)
	var o access.Overrides

	preview, ok, err := st.Get(ctx, prefPreviewMode)
	if err != nil {
		return access.Overrides{}, fmt.Errorf("failed to read preview mode: %w", err)
	}
	o.PreviewMode = ok && preview == "true"

	selected, ok, err := st.Get(ctx, prefSelectedRole)
	if err != nil {
		return access.Overrides{}, fmt.Errorf("failed to read selected role: %w", err)
	}
	if ok {
		if r, valid := access.ParseRole(selected); valid {
			o.SelectedRole = &r
		}
	}
	return o, nil
}

func (s *PreferenceService) SetPreviewMode(ctx context.Context, userID uuid.UUID, on bool) error {
	value := "false"
	if on {
		value = "true"
	}
	return s.scope(userID).Set(ctx, prefPreviewMode, value)
}

// SetSelectedRole stores role, or forgets the selection when role is nil.
func (s *PreferenceService) SetSelectedRole(ctx context.Context, userID uuid.UUID, role *access.Role) error {
	if role == nil {
		return s.scope(userID).Delete(ctx, prefSelectedRole)
	}
	return s.scope(userID).Set(ctx, prefSelectedRole, string(*role))
}

func (s *PreferenceService) Clear(ctx context.Context, userID uuid.UUID) error {
	st := s.scope(userID)
	if err := st.Delete(ctx, prefPreviewMode); err != nil {
		return err
	}
	return st.Delete(ctx, prefSelectedRole)
}
