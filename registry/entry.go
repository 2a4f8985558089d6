package registry

import "unicode/utf8"

// MaxNameLength is the maximum length in bytes of a callback name.
// Longer names are truncated on a rune boundary.
const MaxNameLength = 128

type entry struct {
	group    int
	executed bool
	status   int // Only meaningful when total > 0.
	total    int
	name     string
	arg      any
	action   *Action
	next     *entry
}

func newEntry(action *Action, name string, arg any, group int) *entry {
	return &entry{
		group:  group,
		name:   truncateName(name),
		arg:    arg,
		action: action,
	}
}

func truncateName(name string) string {
	if len(name) <= MaxNameLength {
		return name
	}
	cut := MaxNameLength
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

// shouldExecute reports whether the entry is a candidate when group is dispatched.
// The default group picks up positive groups too, but never negative ones.
func (e *entry) shouldExecute(group int) bool {
	if e.executed {
		return false
	}
	return (group == 0 && e.group > 0) || e.group == group
}

// argOr prefers the registered arg. A typed nil pointer is a registered value.
func (e *entry) argOr(dispatchArg any) any {
	if e.arg != nil {
		return e.arg
	}
	return dispatchArg
}
