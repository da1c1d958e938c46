package tenant

import (
	"fmt"
	"slices"
	"time"

	"github.com/stocklane/api/pkg/domain/shared"
)

// Membership represents a user's membership in a tenant. Each
// (user, tenant) pair has at most one membership row. The permissions
// slice holds per-tenant override grants layered on top of the user's
// role grants. Memberships are never hard-deleted; revoking sets
// active=false so switch history is preserved.
type Membership struct {
	id          shared.ID
	userID      shared.ID
	tenantID    shared.ID
	permissions []string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewMembership creates a new active Membership.
func NewMembership(userID, tenantID shared.ID, permissions []string) (*Membership, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: userID is required", shared.ErrValidation)
	}
	if tenantID.IsZero() {
		return nil, fmt.Errorf("%w: tenantID is required", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Membership{
		id:          shared.NewID(),
		userID:      userID,
		tenantID:    tenantID,
		permissions: normalizePermissions(permissions),
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstituteMembership recreates a Membership from persistence.
func ReconstituteMembership(
	id, userID, tenantID shared.ID,
	permissions []string,
	active bool,
	createdAt, updatedAt time.Time,
) *Membership {
	return &Membership{
		id:          id,
		userID:      userID,
		tenantID:    tenantID,
		permissions: normalizePermissions(permissions),
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the membership ID.
func (m *Membership) ID() shared.ID {
	return m.id
}

// UserID returns the member's user ID.
func (m *Membership) UserID() shared.ID {
	return m.userID
}

// TenantID returns the tenant ID.
func (m *Membership) TenantID() shared.ID {
	return m.tenantID
}

// Permissions returns a copy of the per-tenant override grants.
func (m *Membership) Permissions() []string {
	return slices.Clone(m.permissions)
}

// IsActive reports whether the membership is active.
func (m *Membership) IsActive() bool {
	return m.active
}

// CreatedAt returns when the membership was created.
func (m *Membership) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns when the membership was last updated.
func (m *Membership) UpdatedAt() time.Time {
	return m.updatedAt
}

// HasPermission checks whether the membership grants a permission directly.
func (m *Membership) HasPermission(name string) bool {
	return slices.Contains(m.permissions, name)
}

// SetPermissions replaces the override grants.
func (m *Membership) SetPermissions(permissions []string) {
	m.permissions = normalizePermissions(permissions)
	m.updatedAt = time.Now().UTC()
}

// Deactivate marks the membership inactive. Idempotent.
func (m *Membership) Deactivate() {
	if !m.active {
		return
	}
	m.active = false
	m.updatedAt = time.Now().UTC()
}

// Reactivate marks the membership active again. Idempotent.
func (m *Membership) Reactivate() {
	if m.active {
		return
	}
	m.active = true
	m.updatedAt = time.Now().UTC()
}

// normalizePermissions deduplicates and sorts permission names so
// idempotent re-assignment compares equal.
func normalizePermissions(permissions []string) []string {
	if len(permissions) == 0 {
		return []string{}
	}
	out := slices.Clone(permissions)
	slices.Sort(out)
	return slices.Compact(out)
}
