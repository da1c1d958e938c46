package permission

import (
	"context"

	"github.com/stocklane/api/pkg/domain/shared"
)

// Repository defines the interface for permission catalog persistence.
type Repository interface {
	// Create stores a new permission record. Returns
	// shared.ErrAlreadyExists when the name is already taken.
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id shared.ID) (*Record, error)
	GetByName(ctx context.Context, name string) (*Record, error)
	List(ctx context.Context) ([]*Record, error)

	// ListByModule returns the catalog grouped by module, discovered
	// from stored records.
	ListByModule(ctx context.Context) (map[string][]*Record, error)
}
