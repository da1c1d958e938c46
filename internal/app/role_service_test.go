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

type roleFixture struct {
	svc   *RoleService
	users *memUserRepo
	roles *memRoleRepo
	admin *user.User
	user  *user.User
}

// newRoleFixture wires a RoleService with a live access service.
// admin holds roles_manage through a role; user holds no roles.
func newRoleFixture(t *testing.T) *roleFixture {
	t.Helper()

	users := newMemUserRepo()
	roles := newMemRoleRepo()
	tenants := newMemTenantRepo(users)
	ctx := context.Background()

	companyID := shared.NewID()

	admin, err := user.New(companyID, "admin@example.com", "Admin", "hash")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, admin))

	u, err := user.New(companyID, "worker@example.com", "Worker", "hash")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, u))

	rl, err := role.New("role-manager", "", []string{PermRolesManage})
	require.NoError(t, err)
	require.NoError(t, roles.Create(ctx, rl))
	admin.AssignRole(rl.ID())

	resolver := accesscontrol.NewResolver(accesscontrol.DefaultConfig())
	access := NewAccessService(users, roles, tenants, resolver, nil, testLogger())

	return &roleFixture{
		svc:   NewRoleService(roles, users, access, nil, testLogger()),
		users: users,
		roles: roles,
		admin: admin,
		user:  u,
	}
}

func TestRoleService_CreateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a role with permissions", func(t *testing.T) {
		f := newRoleFixture(t)

		r, err := f.svc.CreateRole(ctx, f.admin.ID(), CreateRoleInput{
			Name:        "clerk",
			Permissions: []string{"products_view"},
		})
		require.NoError(t, err)
		assert.Equal(t, "clerk", r.Name())
		assert.Equal(t, []string{"products_view"}, r.Permissions())
	})

	t.Run("denies actors without roles_manage", func(t *testing.T) {
		f := newRoleFixture(t)

		_, err := f.svc.CreateRole(ctx, f.user.ID(), CreateRoleInput{Name: "clerk"})
		assert.True(t, shared.IsForbidden(err))
	})

	t.Run("roleless user cannot mint the super-admin role", func(t *testing.T) {
		f := newRoleFixture(t)

		_, err := f.svc.CreateRole(ctx, f.user.ID(), CreateRoleInput{
			Name:        "super-admin",
			Permissions: []string{"*"},
		})
		assert.True(t, shared.IsForbidden(err))

		err = f.svc.AssignRole(ctx, f.user.ID(), f.user.ID(), shared.NewID())
		assert.True(t, shared.IsForbidden(err))

		access := f.svc.access
		assert.True(t, shared.IsForbidden(access.Authorize(ctx, f.user.ID(), "products_delete")))
	})
}

func TestRoleService_SetRolePermissions(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the permission set", func(t *testing.T) {
		f := newRoleFixture(t)
		r, err := f.svc.CreateRole(ctx, f.admin.ID(), CreateRoleInput{
			Name:        "clerk",
			Permissions: []string{"products_view"},
		})
		require.NoError(t, err)

		updated, err := f.svc.SetRolePermissions(ctx, f.admin.ID(), r.ID(), []string{"products_edit"})
		require.NoError(t, err)
		assert.Equal(t, []string{"products_edit"}, updated.Permissions())
	})

	t.Run("denies actors without roles_manage", func(t *testing.T) {
		f := newRoleFixture(t)
		r, err := f.svc.CreateRole(ctx, f.admin.ID(), CreateRoleInput{Name: "clerk"})
		require.NoError(t, err)

		_, err = f.svc.SetRolePermissions(ctx, f.user.ID(), r.ID(), []string{"*"})
		assert.True(t, shared.IsForbidden(err))
	})
}

func TestRoleService_AssignRole(t *testing.T) {
	ctx := context.Background()

	t.Run("grants the role and widens authorization", func(t *testing.T) {
		f := newRoleFixture(t)
		r, err := f.svc.CreateRole(ctx, f.admin.ID(), CreateRoleInput{
			Name:        "clerk",
			Permissions: []string{"products_view"},
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.AssignRole(ctx, f.admin.ID(), f.user.ID(), r.ID()))
		assert.NoError(t, f.svc.access.Authorize(ctx, f.user.ID(), "products_view"))
	})

	t.Run("unknown role errors", func(t *testing.T) {
		f := newRoleFixture(t)

		err := f.svc.AssignRole(ctx, f.admin.ID(), f.user.ID(), shared.NewID())
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("denies actors without roles_manage", func(t *testing.T) {
		f := newRoleFixture(t)
		r, err := f.svc.CreateRole(ctx, f.admin.ID(), CreateRoleInput{Name: "clerk"})
		require.NoError(t, err)

		err = f.svc.AssignRole(ctx, f.user.ID(), f.user.ID(), r.ID())
		assert.True(t, shared.IsForbidden(err))
	})
}

func TestRoleService_RemoveRole(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the role and narrows authorization", func(t *testing.T) {
		f := newRoleFixture(t)
		r, err := f.svc.CreateRole(ctx, f.admin.ID(), CreateRoleInput{
			Name:        "clerk",
			Permissions: []string{"products_view"},
		})
		require.NoError(t, err)
		require.NoError(t, f.svc.AssignRole(ctx, f.admin.ID(), f.user.ID(), r.ID()))

		require.NoError(t, f.svc.RemoveRole(ctx, f.admin.ID(), f.user.ID(), r.ID()))
		assert.True(t, shared.IsForbidden(f.svc.access.Authorize(ctx, f.user.ID(), "products_view")))
	})

	t.Run("denies actors without roles_manage", func(t *testing.T) {
		f := newRoleFixture(t)

		err := f.svc.RemoveRole(ctx, f.user.ID(), f.user.ID(), shared.NewID())
		assert.True(t, shared.IsForbidden(err))
	})
}

func TestRoleService_OperatorSeat(t *testing.T) {
	// The admin CLI constructs services without an access service and
	// acts with a zero actor id.
	users := newMemUserRepo()
	roles := newMemRoleRepo()
	svc := NewRoleService(roles, users, nil, nil, testLogger())

	r, err := svc.CreateRole(context.Background(), shared.ID{}, CreateRoleInput{
		Name:        "super-admin",
		Permissions: []string{"*"},
	})
	require.NoError(t, err)
	assert.Equal(t, "super-admin", r.Name())
}
