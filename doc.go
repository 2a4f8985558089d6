/*
Package callbacks is the root of a small module for deferring work until a later, explicit point in a program's life.

The interesting parts live in sub-packages:
  - registry holds the deferred-callback registry and its dispatch policies.
  - diag provides the slog plumbing the registry uses for its diagnostic output.
  - cmd/deferrun is a command that runs a program and then dispatches deferred shell commands, like a shell trap with groups.

The registry is deliberately single-flow. It doesn't block, and it isn't meant to be shared between goroutines.
If you need that, put it behind your own lock.
*/
package callbacks
