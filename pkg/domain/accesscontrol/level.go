package accesscontrol

// Level is an ordinal capability tier derived from the highest-privilege
// action held within a module.
type Level int

// Access levels, ordered none < read < write < admin.
const (
	LevelNone Level = iota
	LevelRead
	LevelWrite
	LevelAdmin
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelRead:
		return "read"
	case LevelWrite:
		return "write"
	case LevelAdmin:
		return "admin"
	default:
		return "none"
	}
}

// AtLeast reports whether the level meets or exceeds the given minimum.
func (l Level) AtLeast(min Level) bool {
	return l >= min
}

// Recognized actions. The action vocabulary is open-ended; actions
// outside this set still appear in a module's raw action list but
// contribute LevelNone.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionManage = "manage"
)

// ActionLevel maps an action to its access level. Unrecognized actions
// map to LevelNone.
func ActionLevel(action string) Level {
	switch action {
	case ActionView:
		return LevelRead
	case ActionCreate, ActionEdit:
		return LevelWrite
	case ActionDelete, ActionManage:
		return LevelAdmin
	default:
		return LevelNone
	}
}
