// Package product provides the product domain model. Products are
// tenant-owned: every row carries the tenant reference and all access
// goes through the tenant scope enforcer.
package product

import (
	"fmt"
	"time"

	"github.com/stocklane/api/pkg/domain/shared"
)

// Product represents a stock item owned by a single tenant.
type Product struct {
	id        shared.ID
	tenantID  shared.ID
	sku       string
	name      string
	quantity  int
	createdAt time.Time
	updatedAt time.Time
}

// New creates a new Product in the given tenant.
func New(tenantID shared.ID, sku, name string, quantity int) (*Product, error) {
	if tenantID.IsZero() {
		return nil, fmt.Errorf("%w: tenantID is required", shared.ErrValidation)
	}
	if sku == "" {
		return nil, fmt.Errorf("%w: sku is required", shared.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Product{
		id:        shared.NewID(),
		tenantID:  tenantID,
		sku:       sku,
		name:      name,
		quantity:  quantity,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates a Product from persistence.
func Reconstitute(id, tenantID shared.ID, sku, name string, quantity int, createdAt, updatedAt time.Time) *Product {
	return &Product{
		id:        id,
		tenantID:  tenantID,
		sku:       sku,
		name:      name,
		quantity:  quantity,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the product ID.
func (p *Product) ID() shared.ID { return p.id }

// TenantID returns the owning tenant ID.
func (p *Product) TenantID() shared.ID { return p.tenantID }

// SKU returns the stock keeping unit.
func (p *Product) SKU() string { return p.sku }

// Name returns the product name.
func (p *Product) Name() string { return p.name }

// Quantity returns the stock quantity.
func (p *Product) Quantity() int { return p.quantity }

// CreatedAt returns the creation timestamp.
func (p *Product) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last update timestamp.
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// UpdateName updates the product name.
func (p *Product) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	p.name = name
	p.updatedAt = time.Now().UTC()
	return nil
}

// AdjustQuantity applies a stock delta. The result cannot go negative.
func (p *Product) AdjustQuantity(delta int) error {
	if p.quantity+delta < 0 {
		return fmt.Errorf("%w: quantity cannot go below zero", shared.ErrValidation)
	}
	p.quantity += delta
	p.updatedAt = time.Now().UTC()
	return nil
}
