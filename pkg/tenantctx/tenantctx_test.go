package tenantctx_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/tenantctx"
)

func TestBind(t *testing.T) {
	t.Run("binds a tenant scope", func(t *testing.T) {
		id := shared.NewID()

		ctx, err := tenantctx.Bind(context.Background(), tenantctx.Scope{TenantID: id})
		require.NoError(t, err)

		scope, ok := tenantctx.From(ctx)
		require.True(t, ok)
		assert.True(t, scope.IsBound())
		assert.True(t, scope.TenantID.Equals(id))
		assert.False(t, scope.CrossTenant)
	})

	t.Run("binding is write once", func(t *testing.T) {
		first := shared.NewID()
		ctx, err := tenantctx.Bind(context.Background(), tenantctx.Scope{TenantID: first})
		require.NoError(t, err)

		_, err = tenantctx.Bind(ctx, tenantctx.Scope{TenantID: shared.NewID()})
		assert.ErrorIs(t, err, tenantctx.ErrAlreadyBound)

		// The original scope survives the failed rebind.
		assert.True(t, tenantctx.TenantID(ctx).Equals(first))
	})

	t.Run("unbound scope can be bound explicitly", func(t *testing.T) {
		ctx, err := tenantctx.Bind(context.Background(), tenantctx.Scope{})
		require.NoError(t, err)

		scope, ok := tenantctx.From(ctx)
		require.True(t, ok)
		assert.False(t, scope.IsBound())
	})
}

func TestRequire(t *testing.T) {
	t.Run("fails closed without a scope", func(t *testing.T) {
		_, err := tenantctx.Require(context.Background())
		assert.True(t, errors.Is(err, shared.ErrTenantRequired))
	})

	t.Run("fails closed when bound scope has no tenant", func(t *testing.T) {
		ctx, err := tenantctx.Bind(context.Background(), tenantctx.Scope{})
		require.NoError(t, err)

		_, err = tenantctx.Require(ctx)
		assert.True(t, errors.Is(err, shared.ErrTenantRequired))
	})

	t.Run("returns the bound tenant", func(t *testing.T) {
		id := shared.NewID()
		ctx, err := tenantctx.Bind(context.Background(), tenantctx.Scope{TenantID: id})
		require.NoError(t, err)

		scope, err := tenantctx.Require(ctx)
		require.NoError(t, err)
		assert.True(t, scope.TenantID.Equals(id))
	})

	t.Run("cross-tenant override satisfies require", func(t *testing.T) {
		ctx, err := tenantctx.WithCrossTenant(context.Background())
		require.NoError(t, err)

		scope, err := tenantctx.Require(ctx)
		require.NoError(t, err)
		assert.True(t, scope.CrossTenant)
		assert.False(t, scope.IsBound())
	})
}

func TestTenantID(t *testing.T) {
	t.Run("zero when unbound", func(t *testing.T) {
		assert.True(t, tenantctx.TenantID(context.Background()).IsZero())
	})

	t.Run("bound tenant id", func(t *testing.T) {
		id := shared.NewID()
		ctx, err := tenantctx.Bind(context.Background(), tenantctx.Scope{TenantID: id})
		require.NoError(t, err)

		assert.True(t, tenantctx.TenantID(ctx).Equals(id))
	})
}
