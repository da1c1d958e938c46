package accesscontrol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/api/pkg/domain/accesscontrol"
	"github.com/stocklane/api/pkg/domain/role"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/tenant"
)

func mustRole(t *testing.T, name string, permissions []string) *role.Role {
	t.Helper()
	r, err := role.New(name, "", permissions)
	require.NoError(t, err)
	return r
}

func mustMembership(t *testing.T, permissions []string) *tenant.Membership {
	t.Helper()
	m, err := tenant.NewMembership(shared.NewID(), shared.NewID(), permissions)
	require.NoError(t, err)
	return m
}

func TestResolver_RolePermissions(t *testing.T) {
	r := accesscontrol.NewResolver(accesscontrol.DefaultConfig())

	t.Run("flat union across roles", func(t *testing.T) {
		roles := []*role.Role{
			mustRole(t, "clerk", []string{"products_view", "orders_view"}),
			mustRole(t, "picker", []string{"orders_view", "orders_edit"}),
		}

		got := r.RolePermissions(roles)
		assert.Equal(t, []string{"orders_edit", "orders_view", "products_view"}, got)
	})

	t.Run("no roles yields empty set", func(t *testing.T) {
		assert.Empty(t, r.RolePermissions(nil))
	})
}

func TestResolver_IsSuperAdmin(t *testing.T) {
	r := accesscontrol.NewResolver(accesscontrol.Config{
		SuperAdminRoles:    []string{"super-admin", "owner"},
		WildcardPermission: "*",
	})

	t.Run("by role name", func(t *testing.T) {
		roles := []*role.Role{mustRole(t, "owner", nil)}
		assert.True(t, r.IsSuperAdmin(roles, nil))
	})

	t.Run("by wildcard permission", func(t *testing.T) {
		assert.True(t, r.IsSuperAdmin(nil, []string{"*"}))
	})

	t.Run("ordinary principal", func(t *testing.T) {
		roles := []*role.Role{mustRole(t, "clerk", []string{"products_view"})}
		assert.False(t, r.IsSuperAdmin(roles, []string{"products_view"}))
	})
}

func TestResolver_Build(t *testing.T) {
	r := accesscontrol.NewResolver(accesscontrol.DefaultConfig())

	t.Run("merges role grants with membership overrides", func(t *testing.T) {
		roles := []*role.Role{mustRole(t, "clerk", []string{"products_view"})}
		m := mustMembership(t, []string{"products_edit"})

		snap := r.Build(roles, m)
		assert.True(t, snap.Has("products_view"))
		assert.True(t, snap.Has("products_edit"))
		assert.Equal(t, accesscontrol.LevelWrite, snap.ModuleLevel("products"))
	})

	t.Run("overrides are additive only", func(t *testing.T) {
		roles := []*role.Role{mustRole(t, "clerk", []string{"products_view", "products_delete"})}
		m := mustMembership(t, nil)

		snap := r.Build(roles, m)
		assert.True(t, snap.Has("products_view"))
		assert.True(t, snap.Has("products_delete"))
	})

	t.Run("nil membership contributes nothing", func(t *testing.T) {
		roles := []*role.Role{mustRole(t, "clerk", []string{"products_view"})}

		snap := r.Build(roles, nil)
		assert.Equal(t, []string{"products_view"}, snap.Names())
	})

	t.Run("inactive membership contributes nothing", func(t *testing.T) {
		roles := []*role.Role{mustRole(t, "clerk", []string{"products_view"})}
		m := mustMembership(t, []string{"products_edit"})
		m.Deactivate()

		snap := r.Build(roles, m)
		assert.False(t, snap.Has("products_edit"))
		assert.Equal(t, accesscontrol.LevelRead, snap.ModuleLevel("products"))
	})

	t.Run("super admin role yields super admin snapshot", func(t *testing.T) {
		roles := []*role.Role{mustRole(t, "super-admin", nil)}

		snap := r.Build(roles, nil)
		assert.True(t, snap.IsSuperAdmin())
		assert.NoError(t, snap.Authorize("products_delete"))
	})

	t.Run("wildcard override yields super admin snapshot", func(t *testing.T) {
		m := mustMembership(t, []string{"*"})

		snap := r.Build(nil, m)
		assert.True(t, snap.IsSuperAdmin())
	})
}

func TestNewResolver_Defaults(t *testing.T) {
	r := accesscontrol.NewResolver(accesscontrol.Config{})

	roles := []*role.Role{mustRole(t, "super-admin", nil)}
	assert.True(t, r.IsSuperAdmin(roles, nil))
	assert.True(t, r.IsSuperAdmin(nil, []string{"*"}))
}
