package registry

import (
	"context"
	"sync"
)

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide [Registry], creating it with [ConfigFromEnv] on first use.
// Only its creation is synchronized. Like any [Registry], it's meant to be used from a single flow of control.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(ConfigFromEnv()...)
	})
	return defaultRegistry
}

// Register calls [Registry.Register] on the [Default] registry.
func Register(action *Action, name string, arg any) error {
	return Default().Register(action, name, arg)
}

// RegisterWithGroup calls [Registry.RegisterWithGroup] on the [Default] registry.
func RegisterWithGroup(action *Action, name string, arg any, group int) error {
	return Default().RegisterWithGroup(action, name, arg, group)
}

// Unregister calls [Registry.Unregister] on the [Default] registry.
func Unregister(action *Action) error {
	return Default().Unregister(action)
}

// Execute calls [Registry.Execute] on the [Default] registry.
func Execute(ctx context.Context, arg any) (int, error) {
	return Default().Execute(ctx, arg)
}

// ExecuteGroup calls [Registry.ExecuteGroup] on the [Default] registry.
func ExecuteGroup(ctx context.Context, arg any, group int) (int, error) {
	return Default().ExecuteGroup(ctx, arg, group)
}

// Release calls [Registry.Release] on the [Default] registry.
func Release() {
	Default().Release()
}

// IsRunningAsCallback calls [Registry.IsRunningAsCallback] on the [Default] registry.
func IsRunningAsCallback() bool {
	return Default().IsRunningAsCallback()
}

// ReRegisterItself calls [Registry.ReRegisterItself] on the [Default] registry.
func ReRegisterItself() error {
	return Default().ReRegisterItself()
}

// SetPolicy calls [Registry.SetPolicy] on the [Default] registry.
func SetPolicy(policy Policy) Policy {
	return Default().SetPolicy(policy)
}
