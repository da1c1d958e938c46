package role

import (
	"context"

	"github.com/stocklane/api/pkg/domain/shared"
)

// Repository defines the interface for role persistence.
type Repository interface {
	Create(ctx context.Context, r *Role) error
	GetByID(ctx context.Context, id shared.ID) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	Update(ctx context.Context, r *Role) error
	List(ctx context.Context) ([]*Role, error)

	// GetByIDs returns the roles for the given IDs. Missing IDs are
	// skipped, not errored, so stale assignments cannot break resolution.
	GetByIDs(ctx context.Context, ids []shared.ID) ([]*Role, error)
}
