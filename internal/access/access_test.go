package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rolePtr(r Role) *Role { return &r }

func superAdmin() Resolution {
	return Resolution{Role: RoleSuperAdmin, Permissions: NewPermissionSet(AllPermissions()...)}
}

func TestCompute_PlainUserWithoutPermissions(t *testing.T) {
	eff := Compute(Resolution{Role: RoleUser, Permissions: PermissionSet{}}, Overrides{})

	assert.False(t, eff.IsAdmin)
	assert.False(t, eff.IsSuperAdmin)
	assert.False(t, eff.HasPermission(PermIsCreator))
	assert.Equal(t, RoleUser, *eff.Role)
}

func TestCompute_UserWithViewStatisticsIsAdmin(t *testing.T) {
	eff := Compute(Resolution{Role: RoleUser, Permissions: NewPermissionSet(PermViewStatistics)}, Overrides{})

	assert.True(t, eff.IsAdmin)
	assert.False(t, eff.IsSuperAdmin)
	assert.True(t, eff.HasPermission(PermViewStatistics))
	assert.False(t, eff.HasPermission(PermTravelEditor))
}

func TestCompute_SuperAdminSelectsUser(t *testing.T) {
	eff := Compute(superAdmin(), Overrides{SelectedRole: rolePtr(RoleUser)})

	assert.False(t, eff.HasPermission(PermViewStatistics))
	assert.False(t, eff.IsAdmin)
	assert.False(t, eff.IsSuperAdmin)
	assert.Empty(t, eff.Permissions)
	assert.True(t, eff.UserMode())
	assert.Equal(t, RoleSuperAdmin, *eff.Role)
}

func TestCompute_PreviewModeOverridesStoredGrants(t *testing.T) {
	actual := Resolution{Role: RoleUser, Permissions: NewPermissionSet(PermIsCreator, PermViewStatistics)}

	eff := Compute(actual, Overrides{PreviewMode: true})

	assert.False(t, eff.IsAdmin)
	assert.False(t, eff.HasPermission(PermIsCreator))
	assert.Empty(t, eff.Permissions)
}

func TestCompute_SelectedRoleIgnoredForNonSuperAdmin(t *testing.T) {
	eff := Compute(Resolution{Role: RoleUser}, Overrides{SelectedRole: rolePtr(RoleSuperAdmin)})

	assert.False(t, eff.IsSuperAdmin)
	assert.False(t, eff.HasPermission(PermTravelEditor))
	assert.Nil(t, eff.SelectedRole)
}

func TestCompute_SuperAdminPermissionsNeverConsulted(t *testing.T) {
	// Stored rows are empty, yet every permission holds outside user mode.
	stored := Resolution{Role: RoleSuperAdmin, Permissions: PermissionSet{}}
	selections := []*Role{nil, rolePtr(RoleSuperAdmin), rolePtr(RoleUser)}

	for _, preview := range []bool{false, true} {
		for _, sel := range selections {
			eff := Compute(stored, Overrides{PreviewMode: preview, SelectedRole: sel})
			userMode := preview || (sel != nil && *sel == RoleUser)
			for _, p := range AllPermissions() {
				assert.Equal(t, !userMode, eff.HasPermission(p), "preview=%v selected=%v perm=%s", preview, sel, p)
			}
		}
	}
}

func TestCompute_SuperAdminExplicitSelection(t *testing.T) {
	eff := Compute(superAdmin(), Overrides{SelectedRole: rolePtr(RoleSuperAdmin)})

	assert.True(t, eff.IsSuperAdmin)
	assert.True(t, eff.IsAdmin)
}

func TestAnonymous(t *testing.T) {
	eff := Anonymous()

	assert.False(t, eff.Authenticated())
	assert.Nil(t, eff.Role)
	assert.False(t, eff.HasPermission(PermIsCreator))
}

func TestParseHelpers(t *testing.T) {
	r, ok := ParseRole("superadmin")
	assert.True(t, ok)
	assert.Equal(t, RoleSuperAdmin, r)

	_, ok = ParseRole("admin")
	assert.False(t, ok)

	p, ok := ParsePermission("is_creator")
	assert.True(t, ok)
	assert.Equal(t, PermIsCreator, p)

	_, ok = ParsePermission("root")
	assert.False(t, ok)
}

func TestPermissionSet_SliceSorted(t *testing.T) {
	set := NewPermissionSet(PermViewStatistics, PermIsCreator, PermIsCreator)

	assert.Equal(t, []Permission{PermIsCreator, PermViewStatistics}, set.Slice())
}
