// Package access derives the role and permission view a request acts under.
//
// A stored Resolution is layered with two overrides: preview mode, which forces an
// ordinary-user view, and a superadmin's selected acting role. Overrides always win
// over stored grants, so preview can never leak an elevated capability.
package access

import "sort"

type Role string

const (
	RoleUser       Role = "user"
	RoleSuperAdmin Role = "superadmin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

type Permission string

const (
	PermTravelEditor   Permission = "travel_editor"
	PermPricesEditor   Permission = "prices_editor"
	PermViewStatistics Permission = "view_statistics"
	PermIsCreator      Permission = "is_creator"
)

var allPermissions = []Permission{PermTravelEditor, PermPricesEditor, PermViewStatistics, PermIsCreator}

// AllPermissions returns a fresh slice of every known permission.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

func ParsePermission(s string) (Permission, bool) {
	for _, p := range allPermissions {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

type PermissionSet map[Permission]struct{}

func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Slice returns the members sorted by name.
func (s PermissionSet) Slice() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Resolution is the stored role and permission grant of an identity.
type Resolution struct {
	Role        Role
	Permissions PermissionSet
}

func (r Resolution) IsSuperAdmin() bool {
	return r.Role == RoleSuperAdmin
}

func (r Resolution) IsAdmin() bool {
	return r.IsSuperAdmin() || r.Permissions.Has(PermViewStatistics)
}

type Overrides struct {
	PreviewMode  bool
	SelectedRole *Role
}

// Effective is what a request is allowed to do after overrides are applied.
type Effective struct {
	// Role is the stored role. Nil means there is no session.
	Role         *Role
	Permissions  PermissionSet
	IsAdmin      bool
	IsSuperAdmin bool
	PreviewMode  bool
	SelectedRole *Role

	actual   Resolution
	userMode bool
}

// Anonymous is the view of a request without a session.
func Anonymous() Effective {
	return Effective{Permissions: PermissionSet{}}
}

func Compute(actual Resolution, o Overrides) Effective {
	actualIsSuperAdmin := actual.IsSuperAdmin()

	// A selected role only means something for a stored superadmin.
	selected := o.SelectedRole
	if !actualIsSuperAdmin {
		selected = nil
	}

	role := actual.Role
	eff := Effective{
		Role:         &role,
		PreviewMode:  o.PreviewMode,
		SelectedRole: selected,
		actual:       actual,
	}

	eff.userMode = o.PreviewMode || (actualIsSuperAdmin && selected != nil && *selected == RoleUser)
	if eff.userMode {
		eff.Permissions = PermissionSet{}
		return eff
	}

	if selected == nil {
		eff.IsSuperAdmin = actualIsSuperAdmin
		eff.IsAdmin = eff.IsSuperAdmin || actual.IsAdmin()
	} else {
		eff.IsSuperAdmin = *selected == RoleSuperAdmin
		eff.IsAdmin = eff.IsSuperAdmin
	}
	eff.Permissions = actual.Permissions
	if eff.Permissions == nil {
		eff.Permissions = PermissionSet{}
	}
	return eff
}

func (e Effective) HasPermission(p Permission) bool {
	if e.IsSuperAdmin {
		return true
	}
	if e.userMode {
		return false
	}
	return e.Permissions.Has(p)
}

// UserMode reports whether an override forced the ordinary-user view.
func (e Effective) UserMode() bool {
	return e.userMode
}

// Actual is the stored resolution before overrides.
func (e Effective) Actual() Resolution {
	return e.actual
}

func (e Effective) Authenticated() bool {
	return e.Role != nil
}
