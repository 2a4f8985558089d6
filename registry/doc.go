/*
Package registry provides a process-local registry of deferred callbacks, and a dispatcher that runs them later under an aggregation [Policy].

# Registering Callbacks

A callback is a [Func] wrapped in an [Action] with [NewAction].
The *Action pointer is the callback's identity, so keep it around if it may need to be unregistered later.
Registering the same [Action] more than once is allowed and creates independent entries.

Entries are kept in last-in-first-out order, which means that dispatch visits the most recently registered entry first, just like a deferred function call.

Each entry may be tagged with a group ID with [Registry.RegisterWithGroup]:
  - Group 0 is the default group, and is reserved. It can't be assigned explicitly.
  - A positive group runs when that group is dispatched, and also when the default group is dispatched.
  - A negative group only runs when that exact group is dispatched.

# Dispatching

[Registry.Execute] dispatches the default group, and [Registry.ExecuteGroup] dispatches a specific group.
Each entry runs at most once per arming: after it has been executed, further dispatch calls skip it.
An entry may re-arm itself for a later dispatch by calling [Registry.ReRegisterItself] from within its own [Func].

A [Func] returning a value less than [SuccessThreshold] has failed.
How failures are aggregated is determined by the [Policy] set with [Registry.SetPolicy]:
  - [ExecuteAll] runs every candidate and returns the number of failures. This is the default.
  - [FailFast] stops at the first failure and returns 0, or returns 1 if nothing failed.

# Reentrancy

The registry is guarded by a non-blocking reentrancy flag, not a mutex.
While a dispatch or release is in progress, attempts to register, unregister, or dispatch return [ErrLocked] immediately.
This makes it safe for a callback to call back into the registry: the call is rejected rather than corrupting the chain.

The registry is not safe for concurrent use, and isn't intended to be.

# Default Instance

[Default] returns a lazily created, process-wide [Registry] configured from the environment with [ConfigFromEnv].
The package-level functions like [Register] and [Execute] operate on it.
*/
package registry
