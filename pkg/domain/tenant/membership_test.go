package tenant_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/tenant"
)

func TestNewMembership(t *testing.T) {
	t.Run("starts active", func(t *testing.T) {
		m, err := tenant.NewMembership(shared.NewID(), shared.NewID(), []string{"products_view"})
		require.NoError(t, err)

		assert.True(t, m.IsActive())
		assert.Equal(t, []string{"products_view"}, m.Permissions())
	})

	t.Run("requires user and tenant", func(t *testing.T) {
		_, err := tenant.NewMembership(shared.ID{}, shared.NewID(), nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))

		_, err = tenant.NewMembership(shared.NewID(), shared.ID{}, nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("normalizes override grants", func(t *testing.T) {
		m, err := tenant.NewMembership(shared.NewID(), shared.NewID(),
			[]string{"products_view", "orders_view", "products_view"})
		require.NoError(t, err)

		assert.Equal(t, []string{"orders_view", "products_view"}, m.Permissions())
	})

	t.Run("nil permissions become empty slice", func(t *testing.T) {
		m, err := tenant.NewMembership(shared.NewID(), shared.NewID(), nil)
		require.NoError(t, err)

		assert.NotNil(t, m.Permissions())
		assert.Empty(t, m.Permissions())
	})
}

func TestMembership_Lifecycle(t *testing.T) {
	newMembership := func(t *testing.T) *tenant.Membership {
		t.Helper()
		m, err := tenant.NewMembership(shared.NewID(), shared.NewID(), nil)
		require.NoError(t, err)
		return m
	}

	t.Run("deactivate is idempotent", func(t *testing.T) {
		m := newMembership(t)

		m.Deactivate()
		assert.False(t, m.IsActive())
		first := m.UpdatedAt()

		m.Deactivate()
		assert.False(t, m.IsActive())
		assert.Equal(t, first, m.UpdatedAt())
	})

	t.Run("reactivate is idempotent", func(t *testing.T) {
		m := newMembership(t)
		m.Deactivate()

		m.Reactivate()
		assert.True(t, m.IsActive())
		first := m.UpdatedAt()

		m.Reactivate()
		assert.True(t, m.IsActive())
		assert.Equal(t, first, m.UpdatedAt())
	})
}

func TestMembership_Permissions(t *testing.T) {
	m, err := tenant.NewMembership(shared.NewID(), shared.NewID(), []string{"products_view"})
	require.NoError(t, err)

	t.Run("has permission", func(t *testing.T) {
		assert.True(t, m.HasPermission("products_view"))
		assert.False(t, m.HasPermission("products_edit"))
	})

	t.Run("set replaces the override set", func(t *testing.T) {
		m.SetPermissions([]string{"orders_edit", "orders_view", "orders_edit"})

		assert.Equal(t, []string{"orders_edit", "orders_view"}, m.Permissions())
		assert.False(t, m.HasPermission("products_view"))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		got := m.Permissions()
		got[0] = "tampered"
		assert.True(t, m.HasPermission("orders_edit"))
	})
}
