package accesscontrol_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/api/pkg/domain/accesscontrol"
	"github.com/stocklane/api/pkg/domain/permission"
	"github.com/stocklane/api/pkg/domain/shared"
)

func TestNewSnapshot(t *testing.T) {
	t.Run("aggregates actions per module", func(t *testing.T) {
		snap := accesscontrol.NewSnapshot([]string{
			"products_view",
			"products_edit",
			"orders_view",
		}, false)

		prod := snap.Module("products")
		require.NotNil(t, prod)
		assert.True(t, prod.CanView)
		assert.True(t, prod.CanEdit)
		assert.False(t, prod.CanDelete)
		assert.Equal(t, []string{"edit", "view"}, prod.Actions)

		orders := snap.Module("orders")
		require.NotNil(t, orders)
		assert.True(t, orders.CanView)
		assert.False(t, orders.CanEdit)
	})

	t.Run("module level is the highest action level", func(t *testing.T) {
		snap := accesscontrol.NewSnapshot([]string{
			"products_view",
			"orders_view", "orders_create",
			"roles_view", "roles_delete",
		}, false)

		assert.Equal(t, accesscontrol.LevelRead, snap.ModuleLevel("products"))
		assert.Equal(t, accesscontrol.LevelWrite, snap.ModuleLevel("orders"))
		assert.Equal(t, accesscontrol.LevelAdmin, snap.ModuleLevel("roles"))
		assert.Equal(t, accesscontrol.LevelNone, snap.ModuleLevel("reports"))
	})

	t.Run("unrecognized actions appear but carry no level", func(t *testing.T) {
		snap := accesscontrol.NewSnapshot([]string{"reports_export"}, false)

		mod := snap.Module("reports")
		require.NotNil(t, mod)
		assert.Equal(t, []string{"export"}, mod.Actions)
		assert.Equal(t, accesscontrol.LevelNone, mod.Level)
		assert.False(t, mod.CanView)
	})

	t.Run("malformed names land in the general module", func(t *testing.T) {
		snap := accesscontrol.NewSnapshot([]string{"dashboard"}, false)

		assert.True(t, snap.Has("dashboard"))
		assert.True(t, snap.AnyInModule(permission.GeneralModule))
		assert.Nil(t, snap.Module("dashboard"))
	})

	t.Run("duplicate names collapse", func(t *testing.T) {
		snap := accesscontrol.NewSnapshot([]string{
			"products_view", "products_view", "PRODUCTS_VIEW",
		}, false)

		assert.Equal(t, []string{"products_view"}, snap.Names())
		assert.Equal(t, []string{"view"}, snap.Module("products").Actions)
	})
}

func TestSnapshot_Queries(t *testing.T) {
	snap := accesscontrol.NewSnapshot([]string{
		"products_view",
		"products_edit",
		"orders_delete",
	}, false)

	t.Run("has is case insensitive", func(t *testing.T) {
		assert.True(t, snap.Has("products_view"))
		assert.True(t, snap.Has("Products_View"))
		assert.False(t, snap.Has("products_delete"))
	})

	t.Run("has grant matches exact pairs", func(t *testing.T) {
		assert.True(t, snap.HasGrant(permission.Grant{Module: "products", Action: "edit"}))
		assert.False(t, snap.HasGrant(permission.Grant{Module: "products", Action: "delete"}))
	})

	t.Run("any in module", func(t *testing.T) {
		assert.True(t, snap.AnyInModule("orders"))
		assert.False(t, snap.AnyInModule("reports"))
	})

	t.Run("action in any module", func(t *testing.T) {
		assert.True(t, snap.ActionInAnyModule("delete"))
		assert.False(t, snap.ActionInAnyModule("manage"))
	})

	t.Run("names are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"orders_delete", "products_edit", "products_view"}, snap.Names())
	})
}

func TestSnapshot_Authorize(t *testing.T) {
	t.Run("held permission passes", func(t *testing.T) {
		snap := accesscontrol.NewSnapshot([]string{"products_view"}, false)
		assert.NoError(t, snap.Authorize("products_view"))
	})

	t.Run("missing permission is forbidden", func(t *testing.T) {
		snap := accesscontrol.NewSnapshot([]string{"products_view"}, false)

		err := snap.Authorize("products_delete")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrForbidden))
		assert.Equal(t, "products_delete", accesscontrol.MissingPermission(err))
	})

	t.Run("super admin bypasses permission checks", func(t *testing.T) {
		snap := accesscontrol.NewSnapshot(nil, true)

		assert.True(t, snap.IsSuperAdmin())
		assert.NoError(t, snap.Authorize("products_delete"))
		assert.NoError(t, snap.Authorize("anything_at_all"))
	})

	t.Run("empty snapshot denies everything", func(t *testing.T) {
		snap := accesscontrol.NewSnapshot(nil, false)

		err := snap.Authorize("products_view")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})
}

func TestLevel(t *testing.T) {
	t.Run("ordering", func(t *testing.T) {
		assert.True(t, accesscontrol.LevelAdmin.AtLeast(accesscontrol.LevelWrite))
		assert.True(t, accesscontrol.LevelWrite.AtLeast(accesscontrol.LevelWrite))
		assert.False(t, accesscontrol.LevelRead.AtLeast(accesscontrol.LevelWrite))
	})

	t.Run("string names", func(t *testing.T) {
		assert.Equal(t, "none", accesscontrol.LevelNone.String())
		assert.Equal(t, "read", accesscontrol.LevelRead.String())
		assert.Equal(t, "write", accesscontrol.LevelWrite.String())
		assert.Equal(t, "admin", accesscontrol.LevelAdmin.String())
	})

	t.Run("action mapping", func(t *testing.T) {
		assert.Equal(t, accesscontrol.LevelRead, accesscontrol.ActionLevel("view"))
		assert.Equal(t, accesscontrol.LevelWrite, accesscontrol.ActionLevel("create"))
		assert.Equal(t, accesscontrol.LevelWrite, accesscontrol.ActionLevel("edit"))
		assert.Equal(t, accesscontrol.LevelAdmin, accesscontrol.ActionLevel("delete"))
		assert.Equal(t, accesscontrol.LevelAdmin, accesscontrol.ActionLevel("manage"))
		assert.Equal(t, accesscontrol.LevelNone, accesscontrol.ActionLevel("export"))
	})
}
