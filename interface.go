package slidingcache

import (
	"context"
)

// KeyConstraint is an interface for key constraints.
type KeyConstraint interface {
	comparable
}

// ValueConstraint is an interface for value constraints.
type ValueConstraint interface {
	any
}

// ComputeFunc computes the value for a missing key.
// It is invoked at most once per absent key even under concurrent callers.
// If it fails, the failure propagates to every caller waiting on the key
// and nothing is stored in the cache.
type ComputeFunc[K KeyConstraint, V ValueConstraint] func(context.Context, K) (V, error)

// ShouldDisposeFunc decides whether an expired value is actually eligible
// for removal at sweep time. It is consulted only by sweeps; explicit
// removal via Remove or Clear always disposes.
// A nil function means every expired value is eligible.
type ShouldDisposeFunc[V ValueConstraint] func(V) bool

// DisposeFunc runs extra cleanup on a value when its entry is removed from
// the cache. It is invoked exactly once per removed value, synchronously on
// the goroutine that triggered the removal, so it must be safe to call from
// any goroutine. A nil function means no cleanup.
// A panicking disposal is not guarded: the panic propagates to the caller
// that triggered the removal, and a sweep in progress abandons its remaining
// keys.
type DisposeFunc[V ValueConstraint] func(V)
