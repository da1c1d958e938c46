// Package permission defines the permission catalog for resource-based
// authorization.
//
// Permission naming follows the wire format:
//
//	{module}_{action}
//
// Examples:
//   - sales_view (view sales records)
//   - products_create (create products)
//   - orders_manage (full control over orders)
//
// The module is the segment before the first underscore; the remainder
// is the action. The set of modules and actions is open-ended and
// discovered from stored permission records, never hardcoded.
package permission

import (
	"fmt"
	"strings"
	"time"

	"github.com/stocklane/api/pkg/domain/shared"
)

// GeneralModule is the reserved bucket for permission names that do not
// split cleanly into module and action.
const GeneralModule = "general"

// Record represents a stored permission definition. Names are globally
// unique; creation with a duplicate name is rejected.
type Record struct {
	id          shared.ID
	name        string
	module      string
	guard       string
	description string
	createdAt   time.Time
}

// NewRecord creates a new permission Record. The module is derived from
// the name at ingestion time.
func NewRecord(name, guard, description string) (*Record, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if guard == "" {
		guard = "api"
	}

	grant := ParseGrant(name)
	return &Record{
		id:          shared.NewID(),
		name:        name,
		module:      grant.Module,
		guard:       guard,
		description: description,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstituteRecord recreates a Record from persistence.
func ReconstituteRecord(id shared.ID, name, module, guard, description string, createdAt time.Time) *Record {
	return &Record{
		id:          id,
		name:        name,
		module:      module,
		guard:       guard,
		description: description,
		createdAt:   createdAt,
	}
}

// ID returns the record ID.
func (r *Record) ID() shared.ID { return r.id }

// Name returns the globally unique permission name.
func (r *Record) Name() string { return r.name }

// Module returns the module segment of the name.
func (r *Record) Module() string { return r.module }

// Guard returns the guard/realm the permission applies to.
func (r *Record) Guard() string { return r.guard }

// Description returns the human-readable description.
func (r *Record) Description() string { return r.description }

// CreatedAt returns the creation timestamp.
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// Grant returns the parsed (module, action) pair for the record.
func (r *Record) Grant() Grant {
	return ParseGrant(r.name)
}
