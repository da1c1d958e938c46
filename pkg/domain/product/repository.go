package product

import (
	"context"

	"github.com/stocklane/api/pkg/domain/shared"
)

// Repository defines the interface for product persistence. Every
// method reads the tenant scope from the context; implementations
// append the tenant constraint to each query and fail closed when no
// scope is bound. A direct-by-id fetch of a row owned by another
// tenant returns shared.ErrNotFound, indistinguishable from true
// non-existence.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id shared.ID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id shared.ID) error
}
