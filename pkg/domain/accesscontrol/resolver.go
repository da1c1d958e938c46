// Package accesscontrol resolves a principal's effective capabilities.
// Role grants and per-tenant membership overrides are merged as an
// additive union into an immutable Snapshot used for authorization
// decisions throughout a request.
package accesscontrol

import (
	"slices"

	"github.com/stocklane/api/pkg/domain/role"
	"github.com/stocklane/api/pkg/domain/tenant"
)

// Config designates the super-admin identity. Both the role names and
// the wildcard permission are configuration, not literals baked into
// the resolver.
type Config struct {
	SuperAdminRoles    []string
	WildcardPermission string
}

// DefaultConfig returns the default resolver configuration.
func DefaultConfig() Config {
	return Config{
		SuperAdminRoles:    []string{"super-admin"},
		WildcardPermission: "*",
	}
}

// Resolver merges role assignments and tenant membership overrides into
// permission snapshots. A Resolver is stateless and safe for
// concurrent use.
type Resolver struct {
	cfg Config
}

// NewResolver creates a new Resolver.
func NewResolver(cfg Config) *Resolver {
	if len(cfg.SuperAdminRoles) == 0 {
		cfg.SuperAdminRoles = DefaultConfig().SuperAdminRoles
	}
	if cfg.WildcardPermission == "" {
		cfg.WildcardPermission = DefaultConfig().WildcardPermission
	}
	return &Resolver{cfg: cfg}
}

// RolePermissions returns the flat union of permission names across the
// given roles. No hierarchy or inheritance between roles.
func (r *Resolver) RolePermissions(roles []*role.Role) []string {
	seen := make(map[string]struct{})
	for _, rl := range roles {
		for _, p := range rl.Permissions() {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// IsSuperAdmin reports whether the principal holds a configured
// super-admin role or the configured wildcard permission.
func (r *Resolver) IsSuperAdmin(roles []*role.Role, permissions []string) bool {
	for _, rl := range roles {
		if slices.Contains(r.cfg.SuperAdminRoles, rl.Name()) {
			return true
		}
	}
	return slices.Contains(permissions, r.cfg.WildcardPermission)
}

// Build merges role grants with the principal's active membership
// overrides for the resolved tenant into a Snapshot. Overrides are
// additive only: they grant on top of role grants and never subtract.
// A nil or inactive membership contributes nothing.
func (r *Resolver) Build(roles []*role.Role, membership *tenant.Membership) *Snapshot {
	names := r.RolePermissions(roles)
	if membership != nil && membership.IsActive() {
		names = append(names, membership.Permissions()...)
	}
	return NewSnapshot(names, r.IsSuperAdmin(roles, names))
}
