package registry

import "context"

// Func is a deferred callback.
//
// The arg is the value given at registration, or the value passed to the dispatch call if nil was registered.
// The ctx carries the registry's logger, which may be retrieved with diag.FromContext.
// A return value less than [SuccessThreshold] counts as a failure.
type Func func(ctx context.Context, arg any) int

// Action is the identity of a [Func] within a [Registry].
// Go functions can't be compared, so the *Action pointer is what [Registry.Unregister] matches on.
type Action struct {
	fn Func
}

// NewAction creates a new [Action] for fn.
// Passing a nil fn will panic.
func NewAction(fn Func) *Action {
	if fn == nil {
		panic("nil callback func")
	}
	return &Action{fn: fn}
}
