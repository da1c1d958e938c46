package app

import (
	"context"
	"fmt"

	"github.com/stocklane/api/internal/infra/redis"
	"github.com/stocklane/api/pkg/domain/role"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/user"
	"github.com/stocklane/api/pkg/logger"
)

// PermRolesManage guards role mutations. Roles define what every
// holder can do, so editing them is itself a protected action.
const PermRolesManage = "roles_manage"

// RoleService manages roles and their assignment to users. Role grants
// apply across all tenants; per-tenant additions come from membership
// overrides. Every mutation authorizes the acting principal first.
type RoleService struct {
	roleRepo  role.Repository
	userRepo  user.Repository
	access    *AccessService
	snapshots *redis.SnapshotStore
	logger    *logger.Logger
}

// NewRoleService creates a new RoleService.
func NewRoleService(
	roleRepo role.Repository,
	userRepo user.Repository,
	access *AccessService,
	snapshots *redis.SnapshotStore,
	log *logger.Logger,
) *RoleService {
	return &RoleService{
		roleRepo:  roleRepo,
		userRepo:  userRepo,
		access:    access,
		snapshots: snapshots,
		logger:    log.With("service", "role"),
	}
}

// CreateRoleInput represents the input for creating a role.
type CreateRoleInput struct {
	Name        string   `validate:"required,min=1,max=64"`
	Description string   `validate:"max=1000"`
	Permissions []string `validate:"dive,permission_name"`
}

// CreateRole creates a new role.
func (s *RoleService) CreateRole(ctx context.Context, actorID shared.ID, input CreateRoleInput) (*role.Role, error) {
	if err := authorize(ctx, s.access, actorID, PermRolesManage); err != nil {
		return nil, err
	}

	r, err := role.New(input.Name, input.Description, input.Permissions)
	if err != nil {
		return nil, err
	}

	if err := s.roleRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("role created", "role_id", r.ID(), "name", r.Name())
	return r, nil
}

// GetRole retrieves a role by ID.
func (s *RoleService) GetRole(ctx context.Context, id shared.ID) (*role.Role, error) {
	return s.roleRepo.GetByID(ctx, id)
}

// ListRoles returns all roles.
func (s *RoleService) ListRoles(ctx context.Context) ([]*role.Role, error) {
	return s.roleRepo.List(ctx)
}

// SetRolePermissions replaces a role's permission set. Cached
// snapshots of affected users age out on TTL rather than being swept
// eagerly.
func (s *RoleService) SetRolePermissions(ctx context.Context, actorID, id shared.ID, permissions []string) (*role.Role, error) {
	if err := authorize(ctx, s.access, actorID, PermRolesManage); err != nil {
		return nil, err
	}

	r, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.SetPermissions(permissions)
	if err := s.roleRepo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return r, nil
}

// AssignRole grants a role to a user. Assigning an already-held role
// is a no-op.
func (s *RoleService) AssignRole(ctx context.Context, actorID, userID, roleID shared.ID) error {
	if err := authorize(ctx, s.access, actorID, PermRolesManage); err != nil {
		return err
	}

	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return fmt.Errorf("failed to load role: %w", err)
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.userRepo.AssignRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	s.invalidateSnapshots(ctx, userID)
	s.logger.Info("role assigned", "user_id", userID, "role_id", roleID)
	return nil
}

// RemoveRole removes a role from a user.
func (s *RoleService) RemoveRole(ctx context.Context, actorID, userID, roleID shared.ID) error {
	if err := authorize(ctx, s.access, actorID, PermRolesManage); err != nil {
		return err
	}

	if err := s.userRepo.RemoveRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}

	s.invalidateSnapshots(ctx, userID)
	s.logger.Info("role removed", "user_id", userID, "role_id", roleID)
	return nil
}

func (s *RoleService) invalidateSnapshots(ctx context.Context, userID shared.ID) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("snapshot invalidation failed", "user_id", userID, "error", err)
	}
}
