package registry

import (
	"context"
	"fmt"
	"strings"
)

// SuccessThreshold is the lowest [Func] return value that counts as a success.
const SuccessThreshold = 1

// Policy determines how the results of individual callbacks are aggregated by a dispatch call.
type Policy int

const (
	ExecuteAll Policy = iota // ExecuteAll runs every candidate and returns the number of failures.
	FailFast                 // FailFast stops at the first failure and returns 0, or 1 if all succeeded.
)

var policyNames = map[Policy]string{
	ExecuteAll: "execute-all",
	FailFast:   "fail-fast",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy parses the output of [Policy.String], ignoring case and surrounding space.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return ExecuteAll, fmt.Errorf("%w: '%s'", ErrUnknownPolicy, s)
}

// policyFunc walks the chain and aggregates results for a single dispatch call.
type policyFunc func(r *Registry, ctx context.Context, arg any, group int) int

// resolve returns the implementation of p. Unknown policies fall back to [ExecuteAll].
func (p Policy) resolve() policyFunc {
	switch p {
	case FailFast:
		return executeFailFast
	default:
		return executeAll
	}
}

func executeAll(r *Registry, ctx context.Context, arg any, group int) int {
	var failures int
	for e := r.head; e != nil; e = e.next {
		if !e.shouldExecute(group) {
			continue
		}
		if !r.invoke(ctx, e, arg) {
			failures++
		}
	}
	return failures
}

func executeFailFast(r *Registry, ctx context.Context, arg any, group int) int {
	for e := r.head; e != nil; e = e.next {
		if !e.shouldExecute(group) {
			continue
		}
		if !r.invoke(ctx, e, arg) {
			return 0
		}
	}
	return 1
}
