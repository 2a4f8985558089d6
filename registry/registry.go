package registry

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/callbacks/diag"
	"log/slog"
)

var (
	ErrFailure       = errors.New("callback operation failed")
	ErrLocked        = errors.New("callback registry is locked")
	ErrUnknownPolicy = errors.New("unknown execution policy")

	ErrReservedGroup = fmt.Errorf("%w: group 0 is reserved for the default group", ErrFailure)
	ErrNilAction     = fmt.Errorf("%w: nil action", ErrFailure)
	ErrNotRegistered = fmt.Errorf("%w: action is not registered", ErrFailure)
	ErrNotRunning    = fmt.Errorf("%w: not running as a callback", ErrFailure)
)

// panicStatus is recorded for a callback that panicked.
const panicStatus = 0

type guardState int

const (
	guardFree guardState = iota
	guardLocked
)

// Registry holds deferred callbacks until they're dispatched.
// A Registry is single-flow, and must not be used concurrently from multiple goroutines.
type Registry struct {
	head    *entry
	current *entry // Only set while an entry's Func is running.
	state   guardState
	policy  Policy
	exec    policyFunc
	logger  *slog.Logger
}

// New creates an empty [Registry].
func New(opts ...Option) *Registry {
	conf := defaultConfig()
	for _, opt := range opts {
		opt(conf)
	}
	return &Registry{
		policy: conf.policy,
		logger: conf.logger,
	}
}

func (r *Registry) lock() bool {
	if r.state != guardFree {
		return false
	}
	r.state = guardLocked
	return true
}

func (r *Registry) unlock() {
	r.state = guardFree
}

// Register adds a callback to the default group.
// If arg is nil, then the callback will receive the argument passed to the dispatch call instead.
// Only a nil interface counts: a typed nil such as (*T)(nil) is passed to the callback as is.
//
// Returns [ErrLocked] if the registry is dispatching or releasing, which includes calls made from within a callback.
func (r *Registry) Register(action *Action, name string, arg any) error {
	return r.push(action, name, arg, 0)
}

// RegisterWithGroup adds a callback to the given group.
// Returns [ErrReservedGroup] if group is 0, since that's the default group and can't be set explicitly.
func (r *Registry) RegisterWithGroup(action *Action, name string, arg any, group int) error {
	if group == 0 {
		return ErrReservedGroup
	}
	return r.push(action, name, arg, group)
}

func (r *Registry) push(action *Action, name string, arg any, group int) error {
	if !r.lock() {
		return ErrLocked
	}
	defer r.unlock()
	if action == nil {
		return ErrNilAction
	}
	e := newEntry(action, name, arg, group)
	e.next = r.head
	r.head = e
	return nil
}

// Unregister removes the most recently registered entry for action.
// Other entries for the same action are left in place.
// Returns [ErrNotRegistered] if there is no entry for action.
func (r *Registry) Unregister(action *Action) error {
	if !r.lock() {
		return ErrLocked
	}
	defer r.unlock()
	var prev *entry
	for e := r.head; e != nil; prev, e = e, e.next {
		if e.action != action {
			continue
		}
		if prev == nil {
			r.head = e.next
		} else {
			prev.next = e.next
		}
		e.next = nil
		return nil
	}
	return ErrNotRegistered
}

// Execute dispatches the default group. See [Registry.ExecuteGroup].
func (r *Registry) Execute(ctx context.Context, arg any) (int, error) {
	return r.ExecuteGroup(ctx, arg, 0)
}

// ExecuteGroup runs every armed entry in the given group, in last-in-first-out order, and aggregates the results with the current [Policy].
// Dispatching group 0 also runs entries in positive groups.
//
// The policy in effect when this is called is used for the whole call, even if a callback changes it.
// Returns [ErrLocked] without running anything if the registry is already dispatching or releasing.
func (r *Registry) ExecuteGroup(ctx context.Context, arg any, group int) (int, error) {
	if !r.lock() {
		return 0, ErrLocked
	}
	defer r.unlock()
	if r.exec == nil {
		r.exec = r.policy.resolve()
	}
	exec := r.exec
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = diag.WithLogger(ctx, r.logger)
	r.logger.Debug("Dispatching callbacks", "policy", r.policy.String(), diag.KeyGroup, group)
	result := exec(r, ctx, arg, group)
	invariant("no current entry after dispatch", r.current == nil)
	return result, nil
}

// invoke runs a single candidate entry, and reports whether it succeeded.
func (r *Registry) invoke(ctx context.Context, e *entry, dispatchArg any) bool {
	invariant("guard held while invoking a callback", r.state == guardLocked)
	e.executed = true
	e.status = r.call(ctx, e, dispatchArg)
	e.total++
	r.logger.Debug("Callback executed",
		append(diag.CallbackAttrs(e.name, e.group), diag.KeyStatus, e.status, diag.KeyTotal, e.total)...)
	return e.status >= SuccessThreshold
}

// call runs the entry's Func with current set.
// A panic is logged and recorded as a failure so that the dispatch loop can continue.
func (r *Registry) call(ctx context.Context, e *entry, dispatchArg any) (status int) {
	r.current = e
	defer func() {
		r.current = nil
		if rec := recover(); rec != nil {
			r.logger.Error("Callback panicked", append(diag.CallbackAttrs(e.name, e.group), "panic", rec)...)
			status = panicStatus
		}
	}()
	return e.action.fn(ctx, e.argOr(dispatchArg))
}

// Release removes every entry from the registry, logging a summary of each.
// This does nothing if called while dispatching, including from within a callback.
func (r *Registry) Release() {
	if !r.lock() {
		return
	}
	defer r.unlock()
	for e := r.head; e != nil; {
		next := e.next
		r.logger.Info(diag.ReleaseSummary(e.name, e.group, e.total, e.status))
		e.next = nil
		e = next
	}
	r.head = nil
}

// IsRunningAsCallback reports whether a dispatch or release is in progress.
// Within a [Func] this is always true.
func (r *Registry) IsRunningAsCallback() bool {
	return r.state == guardLocked
}

// ReRegisterItself re-arms the currently running callback, so that it runs again on the next dispatch call that selects it.
// It has no effect on the dispatch that is currently in progress.
// Returns [ErrNotRunning] if called from outside a [Func].
func (r *Registry) ReRegisterItself() error {
	if !r.IsRunningAsCallback() || r.current == nil {
		return ErrNotRunning
	}
	r.current.executed = false
	return nil
}

// SetPolicy changes the [Policy] for subsequent dispatch calls, and returns the previous one.
func (r *Registry) SetPolicy(policy Policy) Policy {
	prev := r.policy
	r.policy = policy
	r.exec = policy.resolve()
	return prev
}
