package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/api/pkg/domain/product"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/tenantctx"
)

// memProductRepo is an in-memory product.Repository that enforces the
// tenant scope from the context like the postgres implementation does.
type memProductRepo struct {
	products map[string]*product.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*product.Product)}
}

func (r *memProductRepo) visible(scope tenantctx.Scope, p *product.Product) bool {
	return scope.CrossTenant || p.TenantID().Equals(scope.TenantID)
}

func (r *memProductRepo) Create(ctx context.Context, p *product.Product) error {
	if _, err := tenantctx.Require(ctx); err != nil {
		return err
	}
	r.products[p.ID().String()] = p
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id shared.ID) (*product.Product, error) {
	scope, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := r.products[id.String()]
	if !ok || !r.visible(scope, p) {
		return nil, fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
	}
	return p, nil
}

func (r *memProductRepo) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	scope, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range r.products {
		if p.SKU() == sku && r.visible(scope, p) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: product %s", shared.ErrNotFound, sku)
}

func (r *memProductRepo) List(ctx context.Context) ([]*product.Product, error) {
	scope, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}
	var out []*product.Product
	for _, p := range r.products {
		if r.visible(scope, p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Count(ctx context.Context) (int64, error) {
	list, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (r *memProductRepo) Update(ctx context.Context, p *product.Product) error {
	if _, err := r.GetByID(ctx, p.ID()); err != nil {
		return err
	}
	r.products[p.ID().String()] = p
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id shared.ID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	delete(r.products, id.String())
	return nil
}

type productFixture struct {
	*accessFixture
	svc  *ProductService
	repo *memProductRepo
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	af := newAccessFixture(t)
	repo := newMemProductRepo()
	return &productFixture{
		accessFixture: af,
		svc:           NewProductService(repo, af.svc, testLogger()),
		repo:          repo,
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("creates in the bound tenant", func(t *testing.T) {
		f := newProductFixture(t)
		f.grantRole(t, "clerk", []string{PermProductsCreate})

		p, err := f.svc.CreateProduct(f.boundCtx(t), f.user.ID(), CreateProductInput{
			SKU: "SKU-1", Name: "Pallet Jack", Quantity: 3,
		})
		require.NoError(t, err)
		assert.True(t, p.TenantID().Equals(f.tenant.ID()))
		assert.Equal(t, 3, p.Quantity())
	})

	t.Run("denied without the create permission", func(t *testing.T) {
		f := newProductFixture(t)
		f.grantRole(t, "viewer", []string{PermProductsView})

		_, err := f.svc.CreateProduct(f.boundCtx(t), f.user.ID(), CreateProductInput{
			SKU: "SKU-1", Name: "Pallet Jack",
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("fails closed without a tenant scope", func(t *testing.T) {
		f := newProductFixture(t)
		f.grantRole(t, "clerk", []string{PermProductsCreate})

		_, err := f.svc.CreateProduct(ctx, f.user.ID(), CreateProductInput{
			SKU: "SKU-1", Name: "Pallet Jack",
		})
		assert.ErrorIs(t, err, shared.ErrTenantRequired)
	})
}

func TestProductService_TenantIsolation(t *testing.T) {
	f := newProductFixture(t)
	f.grantRole(t, "clerk", []string{PermProductsView, PermProductsCreate})

	ctx := f.boundCtx(t)
	p, err := f.svc.CreateProduct(ctx, f.user.ID(), CreateProductInput{
		SKU: "SKU-1", Name: "Pallet Jack", Quantity: 1,
	})
	require.NoError(t, err)

	t.Run("visible in the owning tenant", func(t *testing.T) {
		got, err := f.svc.GetProduct(ctx, f.user.ID(), p.ID())
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", got.SKU())
	})

	t.Run("by-id fetch from another tenant reads as not found", func(t *testing.T) {
		otherCtx, err := tenantctx.Bind(context.Background(), tenantctx.Scope{TenantID: shared.NewID()})
		require.NoError(t, err)

		_, err = f.svc.GetProduct(otherCtx, f.user.ID(), p.ID())
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("list is confined to the bound tenant", func(t *testing.T) {
		otherCtx, err := tenantctx.Bind(context.Background(), tenantctx.Scope{TenantID: shared.NewID()})
		require.NoError(t, err)

		list, err := f.svc.ListProducts(otherCtx, f.user.ID())
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestProductService_AdjustQuantity(t *testing.T) {
	f := newProductFixture(t)
	f.grantRole(t, "clerk", []string{PermProductsCreate, PermProductsEdit})

	ctx := f.boundCtx(t)
	p, err := f.svc.CreateProduct(ctx, f.user.ID(), CreateProductInput{
		SKU: "SKU-1", Name: "Pallet Jack", Quantity: 5,
	})
	require.NoError(t, err)

	t.Run("applies positive and negative deltas", func(t *testing.T) {
		got, err := f.svc.AdjustQuantity(ctx, f.user.ID(), p.ID(), 3)
		require.NoError(t, err)
		assert.Equal(t, 8, got.Quantity())

		got, err = f.svc.AdjustQuantity(ctx, f.user.ID(), p.ID(), -8)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Quantity())
	})

	t.Run("quantity cannot go negative", func(t *testing.T) {
		_, err := f.svc.AdjustQuantity(ctx, f.user.ID(), p.ID(), -1)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	f := newProductFixture(t)
	f.grantRole(t, "manager", []string{PermProductsCreate, PermProductsView, PermProductsDelete})

	ctx := f.boundCtx(t)
	p, err := f.svc.CreateProduct(ctx, f.user.ID(), CreateProductInput{
		SKU: "SKU-1", Name: "Pallet Jack",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProduct(ctx, f.user.ID(), p.ID()))

	_, err = f.svc.GetProduct(ctx, f.user.ID(), p.ID())
	assert.True(t, shared.IsNotFound(err))
}
