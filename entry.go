package slidingcache

import (
	"sync/atomic"
	"time"
)

// entry is a cached value with its expiration deadline.
// The value is immutable once set; only the deadline mutates, atomically,
// so renewal needs no lock and races with a concurrent sweep check benignly.
type entry[V ValueConstraint] struct {
	value    V
	deadline atomic.Int64 // clock nanoseconds
}

func newEntry[V ValueConstraint](value V, deadline time.Time) *entry[V] {
	e := &entry[V]{value: value}
	e.deadline.Store(deadline.UnixNano())
	return e
}

// renew pushes the entry's deadline forward. Every successful access renews,
// including accesses to entries already past their deadline but not yet swept.
func (e *entry[V]) renew(deadline time.Time) {
	e.deadline.Store(deadline.UnixNano())
}

// expiresAt returns the entry's current deadline.
func (e *entry[V]) expiresAt() time.Time {
	return time.Unix(0, e.deadline.Load())
}
