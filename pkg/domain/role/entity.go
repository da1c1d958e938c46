// Package role provides domain entities for role-based access control.
// Roles define what actions users can perform (permissions).
// Users can have multiple roles, and effective permissions are the flat
// union of all roles. There is no role-to-role inheritance.
package role

import (
	"fmt"
	"slices"
	"time"

	"github.com/stocklane/api/pkg/domain/shared"
)

// Role represents a named set of permission grants.
type Role struct {
	id          shared.ID
	name        string
	description string
	permissions []string
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates a new Role.
func New(name, description string, permissions []string) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Role{
		id:          shared.NewID(),
		name:        name,
		description: description,
		permissions: dedupe(permissions),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstitute recreates a Role from persistence.
func Reconstitute(
	id shared.ID,
	name, description string,
	permissions []string,
	createdAt, updatedAt time.Time,
) *Role {
	return &Role{
		id:          id,
		name:        name,
		description: description,
		permissions: dedupe(permissions),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the role ID.
func (r *Role) ID() shared.ID { return r.id }

// Name returns the role name.
func (r *Role) Name() string { return r.name }

// Description returns the role description.
func (r *Role) Description() string { return r.description }

// Permissions returns a copy of the permission names.
func (r *Role) Permissions() []string { return slices.Clone(r.permissions) }

// CreatedAt returns when the role was created.
func (r *Role) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when the role was last updated.
func (r *Role) UpdatedAt() time.Time { return r.updatedAt }

// HasPermission checks if the role grants a specific permission.
func (r *Role) HasPermission(name string) bool {
	return slices.Contains(r.permissions, name)
}

// SetPermissions replaces the role's permissions.
func (r *Role) SetPermissions(permissions []string) {
	r.permissions = dedupe(permissions)
	r.updatedAt = time.Now().UTC()
}

// AddPermission adds a permission to the role. Idempotent.
func (r *Role) AddPermission(name string) {
	if r.HasPermission(name) {
		return
	}
	r.permissions = append(r.permissions, name)
	r.updatedAt = time.Now().UTC()
}

// RemovePermission removes a permission from the role.
func (r *Role) RemovePermission(name string) {
	r.permissions = slices.DeleteFunc(r.permissions, func(p string) bool {
		return p == name
	})
	r.updatedAt = time.Now().UTC()
}

func dedupe(permissions []string) []string {
	if len(permissions) == 0 {
		return []string{}
	}
	out := slices.Clone(permissions)
	slices.Sort(out)
	return slices.Compact(out)
}
