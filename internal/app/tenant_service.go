package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/stocklane/api/internal/infra/redis"
	"github.com/stocklane/api/internal/metrics"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/tenant"
	"github.com/stocklane/api/pkg/domain/user"
	"github.com/stocklane/api/pkg/logger"
)

// PermTenantsManage guards tenant lifecycle and membership mutations.
const PermTenantsManage = "tenants_manage"

// TenantService handles tenant lifecycle, membership grants, and the
// current-tenant pointer. Lifecycle and membership mutations are admin
// actions authorized against the acting principal; switch and the
// current-tenant accessors are self-service.
type TenantService struct {
	tenantRepo tenant.Repository
	userRepo   user.Repository
	access     *AccessService
	snapshots  *redis.SnapshotStore
	logger     *logger.Logger
}

// NewTenantService creates a new TenantService.
func NewTenantService(
	tenantRepo tenant.Repository,
	userRepo user.Repository,
	access *AccessService,
	snapshots *redis.SnapshotStore,
	log *logger.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		access:     access,
		snapshots:  snapshots,
		logger:     log.With("service", "tenant"),
	}
}

// CreateTenantInput represents the input for creating a tenant.
type CreateTenantInput struct {
	CompanyID string `validate:"required,uuid"`
	Name      string `validate:"required,min=1,max=255"`
	Code      string `validate:"omitempty,tenant_code"`
}

// CreateTenant creates a new tenant. When no code is given, one is
// derived from the name.
func (s *TenantService) CreateTenant(ctx context.Context, actorID shared.ID, input CreateTenantInput) (*tenant.Tenant, error) {
	if err := authorize(ctx, s.access, actorID, PermTenantsManage); err != nil {
		return nil, err
	}

	companyID, err := shared.IDFromString(input.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid company id", shared.ErrValidation)
	}

	code := input.Code
	if code == "" {
		code = tenant.GenerateCode(input.Name)
	}

	exists, err := s.tenantRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check tenant code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: tenant code %q", shared.ErrAlreadyExists, code)
	}

	t, err := tenant.NewTenant(companyID, input.Name, code)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.logger.Info("tenant created", "tenant_id", t.ID(), "code", t.Code())
	return t, nil
}

// GetTenant retrieves a tenant by ID. A tenant of another company
// reads as not found, indistinguishable from true non-existence.
func (s *TenantService) GetTenant(ctx context.Context, actorID, id shared.ID) (*tenant.Tenant, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	t, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.BelongsToCompany(actor.CompanyID()) {
		return nil, fmt.Errorf("%w: tenant %s", shared.ErrNotFound, id)
	}
	return t, nil
}

// ListTenants lists the tenants of a company.
func (s *TenantService) ListTenants(ctx context.Context, companyID shared.ID) ([]*tenant.Tenant, error) {
	return s.tenantRepo.ListByCompany(ctx, companyID)
}

// AssignMembershipInput represents the input for granting tenant access.
type AssignMembershipInput struct {
	UserID      string   `validate:"required,uuid"`
	TenantID    string   `validate:"required,uuid"`
	Permissions []string `validate:"dive,permission_name"`
}

// AssignMembership grants a user access to a tenant with optional
// permission overrides. Re-assigning an existing membership replaces
// its overrides and reactivates it, so the call is idempotent. When
// the user has no current tenant, the new tenant becomes current.
func (s *TenantService) AssignMembership(ctx context.Context, actorID shared.ID, input AssignMembershipInput) (*tenant.Membership, error) {
	if err := authorize(ctx, s.access, actorID, PermTenantsManage); err != nil {
		return nil, err
	}

	userID, err := shared.IDFromString(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", shared.ErrValidation)
	}
	tenantID, err := shared.IDFromString(input.TenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tenant id", shared.ErrValidation)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	if !t.BelongsToCompany(u.CompanyID()) {
		return nil, fmt.Errorf("%w: tenant %s", shared.ErrTenantMismatch, tenantID)
	}

	m, err := tenant.NewMembership(userID, tenantID, input.Permissions)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.UpsertMembership(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to store membership: %w", err)
	}

	// The upsert keeps the original row on re-assignment; return the
	// stored row so callers never see a membership id that does not
	// exist.
	stored, err := s.tenantRepo.GetMembership(ctx, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	if !u.HasCurrentTenant() {
		id := tenantID
		u.SetCurrentTenant(&id)
		if err := s.userRepo.Update(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to set current tenant: %w", err)
		}
	}

	s.invalidateSnapshots(ctx, userID)
	s.logger.Info("membership assigned", "user_id", userID, "tenant_id", tenantID)
	return stored, nil
}

// RevokeMembership deactivates a user's membership in a tenant. The
// grant row survives for audit; access is removed immediately. If the
// revoked tenant was the user's current tenant, the pointer moves to
// another active membership, or to none.
func (s *TenantService) RevokeMembership(ctx context.Context, actorID, userID, tenantID shared.ID) error {
	if err := authorize(ctx, s.access, actorID, PermTenantsManage); err != nil {
		return err
	}

	m, err := s.tenantRepo.GetMembership(ctx, userID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to load membership: %w", err)
	}

	m.Deactivate()
	if err := s.tenantRepo.UpdateMembership(ctx, m); err != nil {
		return fmt.Errorf("failed to deactivate membership: %w", err)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if current := u.CurrentTenantID(); current != nil && current.Equals(tenantID) {
		next, err := s.nextCurrentTenant(ctx, userID, tenantID)
		if err != nil {
			return err
		}
		u.SetCurrentTenant(next)
		if err := s.userRepo.Update(ctx, u); err != nil {
			return fmt.Errorf("failed to repoint current tenant: %w", err)
		}
	}

	s.invalidateSnapshots(ctx, userID)
	s.logger.Info("membership revoked", "user_id", userID, "tenant_id", tenantID)
	return nil
}

// SwitchTenant repoints the user's current tenant. Membership
// validation and the pointer update are atomic; a failed switch leaves
// the previous current tenant untouched.
func (s *TenantService) SwitchTenant(ctx context.Context, userID, tenantID shared.ID) error {
	err := s.tenantRepo.SwitchCurrentTenant(ctx, userID, tenantID)
	switch {
	case err == nil:
		metrics.TenantSwitchesTotal.WithLabelValues("success").Inc()
	case errors.Is(err, shared.ErrMembershipInactive):
		metrics.TenantSwitchesTotal.WithLabelValues("inactive").Inc()
	case errors.Is(err, shared.ErrTenantMismatch):
		metrics.TenantSwitchesTotal.WithLabelValues("mismatch").Inc()
	default:
		metrics.TenantSwitchesTotal.WithLabelValues("error").Inc()
	}
	if err != nil {
		return err
	}

	s.invalidateSnapshots(ctx, userID)
	s.logger.Info("tenant switched", "user_id", userID, "tenant_id", tenantID)
	return nil
}

// AccessibleTenants lists the tenants a user can switch to, with the
// current one flagged.
func (s *TenantService) AccessibleTenants(ctx context.Context, userID shared.ID) ([]*tenant.TenantAccess, error) {
	return s.tenantRepo.ListAccessibleTenants(ctx, userID)
}

// CurrentTenant returns the user's current tenant, or nil when the
// user has none.
func (s *TenantService) CurrentTenant(ctx context.Context, userID shared.ID) (*tenant.Tenant, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	current := u.CurrentTenantID()
	if current == nil {
		return nil, nil
	}
	return s.tenantRepo.GetByID(ctx, *current)
}

// ListMembers lists the memberships of a tenant.
func (s *TenantService) ListMembers(ctx context.Context, tenantID shared.ID) ([]*tenant.Membership, error) {
	return s.tenantRepo.ListMembersByTenant(ctx, tenantID)
}

// ListMemberships lists a user's memberships across tenants.
func (s *TenantService) ListMemberships(ctx context.Context, userID shared.ID) ([]*tenant.Membership, error) {
	return s.tenantRepo.ListMembershipsByUser(ctx, userID)
}

// nextCurrentTenant picks a replacement current tenant after a revoke.
// Any remaining active membership qualifies; none means nil.
func (s *TenantService) nextCurrentTenant(ctx context.Context, userID, revoked shared.ID) (*shared.ID, error) {
	memberships, err := s.tenantRepo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	for _, m := range memberships {
		if m.IsActive() && !m.TenantID().Equals(revoked) {
			id := m.TenantID()
			return &id, nil
		}
	}
	return nil, nil
}

func (s *TenantService) invalidateSnapshots(ctx context.Context, userID shared.ID) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("snapshot invalidation failed", "user_id", userID, "error", err)
	}
}
