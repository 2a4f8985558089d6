//go:build !noassert

package registry

import (
	"fmt"
	"runtime"
)

// invariant panics with the caller's location if ok is false.
// Build with the 'noassert' tag to remove these checks.
func invariant(label string, ok bool) {
	if ok {
		return
	}
	where := "unknown"
	if _, file, line, found := runtime.Caller(1); found {
		where = fmt.Sprintf("'%s#%d'", file, line)
	}
	panic(fmt.Sprintf("registry invariant '%s' violated at %s", label, where))
}
