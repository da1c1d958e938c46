package permission

import "strings"

// Grant is a permission name parsed into its (module, action) pair.
// Parsing happens once at ingestion; callers hold Grants instead of
// re-splitting raw strings on every check. Names that do not split
// cleanly fall into the reserved "general" module with the full name
// as the action. Permission data is trusted administrative input, so a
// malformed name degrades rather than erroring.
type Grant struct {
	Module string
	Action string
}

// ParseGrant parses a permission name into a Grant. The module is the
// segment before the first underscore, the action everything after it.
func ParseGrant(name string) Grant {
	name = strings.ToLower(strings.TrimSpace(name))
	module, action, ok := strings.Cut(name, "_")
	if !ok || module == "" || action == "" {
		return Grant{Module: GeneralModule, Action: name}
	}
	return Grant{Module: module, Action: action}
}

// Name returns the wire-format permission name for the grant.
func (g Grant) Name() string {
	if g.Module == GeneralModule {
		return g.Action
	}
	return g.Module + "_" + g.Action
}

// String returns the wire-format permission name.
func (g Grant) String() string {
	return g.Name()
}

// ParseGrants parses a slice of permission names, deduplicating.
func ParseGrants(names []string) []Grant {
	seen := make(map[Grant]struct{}, len(names))
	out := make([]Grant, 0, len(names))
	for _, n := range names {
		g := ParseGrant(n)
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
