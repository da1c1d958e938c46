// Package tenant provides domain entities for warehouse tenancy.
// A tenant is an isolated data partition (a warehouse); every
// tenant-owned entity row references exactly one tenant.
package tenant

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/stocklane/api/pkg/domain/shared"
)

var codeRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Tenant represents a warehouse tenant entity.
type Tenant struct {
	id        shared.ID
	companyID shared.ID
	name      string
	code      string
	createdAt time.Time
	updatedAt time.Time
}

// NewTenant creates a new Tenant entity.
func NewTenant(companyID shared.ID, name, code string) (*Tenant, error) {
	if companyID.IsZero() {
		return nil, fmt.Errorf("%w: companyID is required", shared.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if !IsValidCode(code) {
		return nil, fmt.Errorf("%w: invalid code format (use lowercase letters, numbers, and hyphens)", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Tenant{
		id:        shared.NewID(),
		companyID: companyID,
		name:      name,
		code:      strings.ToLower(code),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates a Tenant from persistence.
func Reconstitute(id, companyID shared.ID, name, code string, createdAt, updatedAt time.Time) *Tenant {
	return &Tenant{
		id:        id,
		companyID: companyID,
		name:      name,
		code:      code,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the tenant ID.
func (t *Tenant) ID() shared.ID {
	return t.id
}

// CompanyID returns the owning company ID.
func (t *Tenant) CompanyID() shared.ID {
	return t.companyID
}

// Name returns the tenant name.
func (t *Tenant) Name() string {
	return t.name
}

// Code returns the tenant code (URL-friendly identifier).
func (t *Tenant) Code() string {
	return t.code
}

// CreatedAt returns the creation timestamp.
func (t *Tenant) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt returns the last update timestamp.
func (t *Tenant) UpdatedAt() time.Time {
	return t.updatedAt
}

// UpdateName updates the tenant name.
func (t *Tenant) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	t.name = name
	t.updatedAt = time.Now().UTC()
	return nil
}

// UpdateCode updates the tenant code.
// Note: Caller must verify uniqueness before calling this method.
func (t *Tenant) UpdateCode(code string) error {
	if !IsValidCode(code) {
		return fmt.Errorf("%w: code must be 2-64 characters and contain only lowercase letters, numbers, and hyphens", shared.ErrValidation)
	}
	t.code = code
	t.updatedAt = time.Now().UTC()
	return nil
}

// BelongsToCompany checks whether the tenant belongs to the given company.
func (t *Tenant) BelongsToCompany(companyID shared.ID) bool {
	return t.companyID.Equals(companyID)
}

// IsValidCode checks if a tenant code is valid.
func IsValidCode(code string) bool {
	if len(code) < 2 || len(code) > 64 {
		return false
	}
	return codeRegex.MatchString(code)
}

// GenerateCode generates a tenant code from a name.
func GenerateCode(name string) string {
	code := strings.ToLower(name)
	code = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(code, "-")
	code = strings.Trim(code, "-")
	if len(code) > 64 {
		code = code[:64]
	}
	return code
}
