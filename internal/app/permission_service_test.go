package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/api/pkg/domain/accesscontrol"
	"github.com/stocklane/api/pkg/domain/role"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/user"
)

type permissionFixture struct {
	svc   *PermissionService
	admin *user.User
	user  *user.User
}

// newPermissionFixture wires a PermissionService with a live access
// service. admin holds permissions_manage; user holds no roles.
func newPermissionFixture(t *testing.T) *permissionFixture {
	t.Helper()

	users := newMemUserRepo()
	roles := newMemRoleRepo()
	tenants := newMemTenantRepo(users)
	records := newMemPermissionRepo()
	ctx := context.Background()

	companyID := shared.NewID()

	admin, err := user.New(companyID, "admin@example.com", "Admin", "hash")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, admin))

	u, err := user.New(companyID, "worker@example.com", "Worker", "hash")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, u))

	rl, err := role.New("catalog-admin", "", []string{PermPermissionsManage})
	require.NoError(t, err)
	require.NoError(t, roles.Create(ctx, rl))
	admin.AssignRole(rl.ID())

	resolver := accesscontrol.NewResolver(accesscontrol.DefaultConfig())
	access := NewAccessService(users, roles, tenants, resolver, nil, testLogger())

	return &permissionFixture{
		svc:   NewPermissionService(records, access, testLogger()),
		admin: admin,
		user:  u,
	}
}

func TestPermissionService_DefinePermission(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a permission and derives its module", func(t *testing.T) {
		f := newPermissionFixture(t)

		rec, err := f.svc.DefinePermission(ctx, f.admin.ID(), DefinePermissionInput{
			Name: "shipments_view",
		})
		require.NoError(t, err)
		assert.Equal(t, "shipments_view", rec.Name())
		assert.Equal(t, "shipments", rec.Module())
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		f := newPermissionFixture(t)

		_, err := f.svc.DefinePermission(ctx, f.admin.ID(), DefinePermissionInput{Name: "shipments_view"})
		require.NoError(t, err)

		_, err = f.svc.DefinePermission(ctx, f.admin.ID(), DefinePermissionInput{Name: "shipments_view"})
		assert.True(t, shared.IsAlreadyExists(err))
	})

	t.Run("denies actors without permissions_manage", func(t *testing.T) {
		f := newPermissionFixture(t)

		_, err := f.svc.DefinePermission(ctx, f.user.ID(), DefinePermissionInput{Name: "shipments_view"})
		assert.True(t, shared.IsForbidden(err))
	})
}

func TestPermissionService_Catalog(t *testing.T) {
	ctx := context.Background()
	f := newPermissionFixture(t)

	for _, name := range []string{"products_view", "products_edit", "shipments_view"} {
		_, err := f.svc.DefinePermission(ctx, f.admin.ID(), DefinePermissionInput{Name: name})
		require.NoError(t, err)
	}

	catalog, err := f.svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Len(t, catalog["products"], 2)
	assert.Len(t, catalog["shipments"], 1)
}
