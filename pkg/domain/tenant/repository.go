package tenant

import (
	"context"
	"time"

	"github.com/stocklane/api/pkg/domain/shared"
)

// Repository defines the interface for tenant persistence.
type Repository interface {
	// Tenant CRUD
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id shared.ID) (*Tenant, error)
	GetByCode(ctx context.Context, code string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ListByCompany(ctx context.Context, companyID shared.ID) ([]*Tenant, error)

	// Membership operations. UpsertMembership creates the row or, for an
	// existing (user, tenant) pair, updates permissions and active flag in
	// place so re-assignment stays idempotent.
	UpsertMembership(ctx context.Context, membership *Membership) error
	GetMembership(ctx context.Context, userID, tenantID shared.ID) (*Membership, error)
	UpdateMembership(ctx context.Context, membership *Membership) error
	ListMembershipsByUser(ctx context.Context, userID shared.ID) ([]*Membership, error)
	ListMembersByTenant(ctx context.Context, tenantID shared.ID) ([]*Membership, error)
	ListAccessibleTenants(ctx context.Context, userID shared.ID) ([]*TenantAccess, error)

	// SwitchCurrentTenant atomically validates that an active membership
	// exists for (userID, tenantID) in the user's company and repoints the
	// user's current tenant. Validation and pointer update take effect
	// together or not at all.
	SwitchCurrentTenant(ctx context.Context, userID, tenantID shared.ID) error
}

// TenantAccess represents a tenant a user can switch to, joined with
// the membership that grants the access. Used by switch UIs.
type TenantAccess struct {
	Tenant   *Tenant
	Active   bool
	Current  bool
	JoinedAt time.Time
}
