// Package user provides the user (principal) domain model.
package user

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/stocklane/api/pkg/domain/shared"
)

// User represents an authenticated principal. The currentTenantID
// pointer, when set, must reference an active membership belonging to
// this user; the tenant switch coordinator is the only mutator.
type User struct {
	id              shared.ID
	companyID       shared.ID
	email           string
	name            string
	passwordHash    string
	roleIDs         []shared.ID
	currentTenantID *shared.ID
	createdAt       time.Time
	updatedAt       time.Time
}

// New creates a new User entity.
func New(companyID shared.ID, email, name, passwordHash string) (*User, error) {
	if companyID.IsZero() {
		return nil, fmt.Errorf("%w: companyID is required", shared.ErrValidation)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &User{
		id:           shared.NewID(),
		companyID:    companyID,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		roleIDs:      []shared.ID{},
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstitute recreates a User from persistence.
func Reconstitute(
	id, companyID shared.ID,
	email, name, passwordHash string,
	roleIDs []shared.ID,
	currentTenantID *shared.ID,
	createdAt, updatedAt time.Time,
) *User {
	if roleIDs == nil {
		roleIDs = []shared.ID{}
	}
	return &User{
		id:              id,
		companyID:       companyID,
		email:           email,
		name:            name,
		passwordHash:    passwordHash,
		roleIDs:         roleIDs,
		currentTenantID: currentTenantID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ID returns the user ID.
func (u *User) ID() shared.ID {
	return u.id
}

// CompanyID returns the user's company ID.
func (u *User) CompanyID() shared.ID {
	return u.companyID
}

// Email returns the user's email.
func (u *User) Email() string {
	return u.email
}

// Name returns the user's display name.
func (u *User) Name() string {
	return u.name
}

// PasswordHash returns the stored password hash.
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// RoleIDs returns a copy of the assigned role IDs.
func (u *User) RoleIDs() []shared.ID {
	return slices.Clone(u.roleIDs)
}

// CurrentTenantID returns the user's current tenant, nil if none.
func (u *User) CurrentTenantID() *shared.ID {
	return u.currentTenantID
}

// HasCurrentTenant reports whether a current tenant is set.
func (u *User) HasCurrentTenant() bool {
	return u.currentTenantID != nil && !u.currentTenantID.IsZero()
}

// CreatedAt returns the creation timestamp.
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns the last update timestamp.
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// AssignRole adds a role to the user. Idempotent.
func (u *User) AssignRole(roleID shared.ID) {
	if slices.ContainsFunc(u.roleIDs, roleID.Equals) {
		return
	}
	u.roleIDs = append(u.roleIDs, roleID)
	u.updatedAt = time.Now().UTC()
}

// RemoveRole removes a role from the user.
func (u *User) RemoveRole(roleID shared.ID) {
	u.roleIDs = slices.DeleteFunc(u.roleIDs, roleID.Equals)
	u.updatedAt = time.Now().UTC()
}

// SetCurrentTenant repoints the current tenant. A nil value clears it.
// Membership validation is the caller's responsibility.
func (u *User) SetCurrentTenant(tenantID *shared.ID) {
	u.currentTenantID = tenantID
	u.updatedAt = time.Now().UTC()
}

// UpdateName updates the user's display name.
func (u *User) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	u.name = name
	u.updatedAt = time.Now().UTC()
	return nil
}
