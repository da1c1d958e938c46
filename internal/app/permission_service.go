package app

import (
	"context"
	"fmt"

	"github.com/stocklane/api/pkg/domain/permission"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/logger"
)

// PermPermissionsManage guards catalog mutations.
const PermPermissionsManage = "permissions_manage"

// PermissionService manages the permission catalog. Defining entries
// is an admin action authorized against the acting principal; the
// catalog itself is readable by any authenticated user.
type PermissionService struct {
	repo   permission.Repository
	access *AccessService
	logger *logger.Logger
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(repo permission.Repository, access *AccessService, log *logger.Logger) *PermissionService {
	return &PermissionService{
		repo:   repo,
		access: access,
		logger: log.With("service", "permission"),
	}
}

// DefinePermissionInput represents the input for defining a permission.
type DefinePermissionInput struct {
	Name        string `validate:"required,permission_name"`
	Guard       string `validate:"omitempty,max=32"`
	Description string `validate:"max=1000"`
}

// DefinePermission registers a new permission in the catalog. The
// module is derived from the name. Duplicate names are rejected.
func (s *PermissionService) DefinePermission(ctx context.Context, actorID shared.ID, input DefinePermissionInput) (*permission.Record, error) {
	if err := authorize(ctx, s.access, actorID, PermPermissionsManage); err != nil {
		return nil, err
	}

	rec, err := permission.NewRecord(input.Name, input.Guard, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("permission defined", "name", rec.Name(), "module", rec.Module())
	return rec, nil
}

// GetPermission retrieves a permission by name.
func (s *PermissionService) GetPermission(ctx context.Context, name string) (*permission.Record, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	return s.repo.GetByName(ctx, name)
}

// ListPermissions returns all catalog entries.
func (s *PermissionService) ListPermissions(ctx context.Context) ([]*permission.Record, error) {
	return s.repo.List(ctx)
}

// Catalog returns the permission catalog grouped by module. Modules are
// discovered from stored records.
func (s *PermissionService) Catalog(ctx context.Context) (map[string][]*permission.Record, error) {
	return s.repo.ListByModule(ctx)
}
