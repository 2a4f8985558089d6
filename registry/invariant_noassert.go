//go:build noassert

package registry

func invariant(label string, ok bool) {
	// No op
}
