package accesscontrol

import (
	"slices"

	"github.com/stocklane/api/pkg/domain/permission"
)

// ModuleAccess describes the capabilities held within a single module:
// boolean flags for the recognized actions, the raw action list, and
// the highest access level observed.
type ModuleAccess struct {
	Module    string   `json:"module"`
	CanView   bool     `json:"can_view"`
	CanCreate bool     `json:"can_create"`
	CanEdit   bool     `json:"can_edit"`
	CanDelete bool     `json:"can_delete"`
	CanManage bool     `json:"can_manage"`
	Actions   []string `json:"actions"`
	Level     Level    `json:"-"`
}

// LevelName returns the module's access level as a string.
func (m *ModuleAccess) LevelName() string {
	return m.Level.String()
}

// Snapshot is the immutable result of permission aggregation for one
// principal in one tenant context. It is computed once per request and
// never mutated afterwards, so concurrent reads need no locking.
type Snapshot struct {
	names      map[string]struct{}
	grants     map[permission.Grant]struct{}
	modules    map[string]*ModuleAccess
	superAdmin bool
}

// NewSnapshot builds a Snapshot from a flat list of permission names.
// Names are parsed into (module, action) pairs once here; malformed
// names land in the reserved "general" module.
func NewSnapshot(names []string, superAdmin bool) *Snapshot {
	s := &Snapshot{
		names:      make(map[string]struct{}, len(names)),
		grants:     make(map[permission.Grant]struct{}, len(names)),
		modules:    make(map[string]*ModuleAccess),
		superAdmin: superAdmin,
	}

	for _, g := range permission.ParseGrants(names) {
		s.names[g.Name()] = struct{}{}
		s.grants[g] = struct{}{}

		mod, ok := s.modules[g.Module]
		if !ok {
			mod = &ModuleAccess{Module: g.Module}
			s.modules[g.Module] = mod
		}
		mod.Actions = append(mod.Actions, g.Action)
		if lvl := ActionLevel(g.Action); lvl > mod.Level {
			mod.Level = lvl
		}
		switch g.Action {
		case ActionView:
			mod.CanView = true
		case ActionCreate:
			mod.CanCreate = true
		case ActionEdit:
			mod.CanEdit = true
		case ActionDelete:
			mod.CanDelete = true
		case ActionManage:
			mod.CanManage = true
		}
	}

	for _, mod := range s.modules {
		slices.Sort(mod.Actions)
	}
	return s
}

// Has reports whether the flat set contains the permission name.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.names[permission.ParseGrant(name).Name()]
	return ok
}

// HasGrant reports whether the exact (module, action) pair is held.
func (s *Snapshot) HasGrant(g permission.Grant) bool {
	_, ok := s.grants[g]
	return ok
}

// AnyInModule reports whether any action is held within the module.
// This replaces "<module>_*" wildcard lookups.
func (s *Snapshot) AnyInModule(module string) bool {
	_, ok := s.modules[module]
	return ok
}

// ActionInAnyModule reports whether the action is held in any module.
// This replaces "*_<action>" wildcard lookups.
func (s *Snapshot) ActionInAnyModule(action string) bool {
	for g := range s.grants {
		if g.Action == action {
			return true
		}
	}
	return false
}

// Module returns the access summary for a module, nil when no
// permission in that module is held.
func (s *Snapshot) Module(module string) *ModuleAccess {
	return s.modules[module]
}

// ModuleLevel returns the access level for a module, LevelNone when no
// permission in that module is held.
func (s *Snapshot) ModuleLevel(module string) Level {
	if mod, ok := s.modules[module]; ok {
		return mod.Level
	}
	return LevelNone
}

// Modules returns the per-module access map.
func (s *Snapshot) Modules() map[string]*ModuleAccess {
	return s.modules
}

// Names returns the flat set as a sorted slice.
func (s *Snapshot) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// IsSuperAdmin reports whether the snapshot belongs to a super admin.
// Super admins bypass per-module permission checks but remain subject
// to tenant scope enforcement.
func (s *Snapshot) IsSuperAdmin() bool {
	return s.superAdmin
}

// Authorize checks a permission name against the snapshot. It returns
// nil for super admins or when the flat set contains the name, and a
// ForbiddenError carrying the missing name otherwise. It never
// silently no-ops.
func (s *Snapshot) Authorize(name string) error {
	if s.superAdmin || s.Has(name) {
		return nil
	}
	return &ForbiddenError{Permission: name}
}
