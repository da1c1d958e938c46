package user

import (
	"context"

	"github.com/stocklane/api/pkg/domain/shared"
)

// Repository defines the interface for user persistence.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id shared.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Role assignment
	AssignRole(ctx context.Context, userID, roleID shared.ID) error
	RemoveRole(ctx context.Context, userID, roleID shared.ID) error
	ListRoleIDs(ctx context.Context, userID shared.ID) ([]shared.ID, error)
}
