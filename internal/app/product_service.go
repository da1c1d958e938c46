package app

import (
	"context"
	"fmt"

	"github.com/stocklane/api/pkg/domain/product"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/tenantctx"
)

// Product permissions checked by the service. Stored permission records
// use the same names.
const (
	PermProductsView   = "products_view"
	PermProductsCreate = "products_create"
	PermProductsEdit   = "products_edit"
	PermProductsDelete = "products_delete"
)

// ProductService handles product operations within the bound tenant.
// Every operation authorizes first and then relies on the repository
// to constrain rows to the tenant in the request scope.
type ProductService struct {
	repo   product.Repository
	access *AccessService
	logger *logger.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo product.Repository, access *AccessService, log *logger.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		access: access,
		logger: log.With("service", "product"),
	}
}

// CreateProductInput represents the input for creating a product.
type CreateProductInput struct {
	SKU      string `validate:"required,min=1,max=64"`
	Name     string `validate:"required,min=1,max=255"`
	Quantity int    `validate:"gte=0"`
}

// CreateProduct creates a product in the bound tenant.
func (s *ProductService) CreateProduct(ctx context.Context, userID shared.ID, input CreateProductInput) (*product.Product, error) {
	if err := s.access.Authorize(ctx, userID, PermProductsCreate); err != nil {
		return nil, err
	}

	scope, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	p, err := product.New(scope.TenantID, input.SKU, input.Name, input.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created", "product_id", p.ID(), "sku", p.SKU())
	return p, nil
}

// GetProduct retrieves a product by ID within the bound tenant.
func (s *ProductService) GetProduct(ctx context.Context, userID, id shared.ID) (*product.Product, error) {
	if err := s.access.Authorize(ctx, userID, PermProductsView); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// GetProductBySKU retrieves a product by SKU within the bound tenant.
func (s *ProductService) GetProductBySKU(ctx context.Context, userID shared.ID, sku string) (*product.Product, error) {
	if err := s.access.Authorize(ctx, userID, PermProductsView); err != nil {
		return nil, err
	}
	return s.repo.GetBySKU(ctx, sku)
}

// ListProducts lists the products of the bound tenant.
func (s *ProductService) ListProducts(ctx context.Context, userID shared.ID) ([]*product.Product, error) {
	if err := s.access.Authorize(ctx, userID, PermProductsView); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// UpdateProductInput represents the input for updating a product.
type UpdateProductInput struct {
	Name string `validate:"required,min=1,max=255"`
}

// UpdateProduct renames a product within the bound tenant.
func (s *ProductService) UpdateProduct(ctx context.Context, userID, id shared.ID, input UpdateProductInput) (*product.Product, error) {
	if err := s.access.Authorize(ctx, userID, PermProductsEdit); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateName(input.Name); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

// AdjustQuantity changes a product's stock level by delta. The
// resulting quantity cannot go negative.
func (s *ProductService) AdjustQuantity(ctx context.Context, userID, id shared.ID, delta int) (*product.Product, error) {
	if err := s.access.Authorize(ctx, userID, PermProductsEdit); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.AdjustQuantity(delta); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}
	return p, nil
}

// DeleteProduct removes a product within the bound tenant.
func (s *ProductService) DeleteProduct(ctx context.Context, userID, id shared.ID) error {
	if err := s.access.Authorize(ctx, userID, PermProductsDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", "product_id", id)
	return nil
}
