// Package slidingcache provides a generic, thread-safe cache with sliding
// expiration: every successful access renews an entry's time-to-live, and
// entries that go unused become eligible for removal. Expired entries are not
// removed eagerly; removal happens during lazy sweeps piggy-backed on normal
// cache traffic, guarded by an optional disposal predicate and an optional
// disposal function invoked exactly once per removed value.
package slidingcache

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/karupanerura/sliding-cache/internal/panicutil"
)

// Cache is a sliding expiration cache.
// It is a passive data structure: it runs no background goroutine, and all
// maintenance is driven by caller activity. Use intervalsweeper for opt-in
// background sweeping.
type Cache[K KeyConstraint, V ValueConstraint] struct {
	buckets []*bucket[K, V]
	flight  flightGroup[K, V]
	options options[K, V]

	sweepInterval atomic.Int64 // nanoseconds
	nextSweep     atomic.Int64 // clock nanoseconds
}

// New creates a new cache.
func New[K KeyConstraint, V ValueConstraint](opts ...Option[K, V]) *Cache[K, V] {
	options := defaultOptions[K, V]()
	for _, opt := range opts {
		opt.apply(&options)
	}
	options.resolveKeyHash()

	buckets := make([]*bucket[K, V], options.bucketsSize)
	for i := range buckets {
		buckets[i] = newBucket[K, V]()
	}

	c := &Cache[K, V]{
		buckets: buckets,
		flight:  flightGroup[K, V]{waitlists: map[K][]chan flightResult[V]{}},
		options: options,
	}
	c.sweepInterval.Store(int64(options.sweepInterval))
	c.nextSweep.Store(c.nowNanos() + int64(options.sweepInterval))
	return c
}

// GetOrCompute returns the value for the key, computing and storing it first
// if the key is absent. Whether pre-existing or freshly computed, the entry's
// deadline is renewed to now+ttl before returning, so any successful access
// extends the entry's life, including accesses to entries already past their
// deadline but not yet swept.
//
// Concurrent calls for the same absent key converge on a single stored entry
// and at most one invocation of compute; the other callers block until the
// computation settles and observe the same value or error. A failed compute
// stores nothing, and a panicking compute surfaces as a *panics.ErrRecovered
// error to every waiting caller.
//
// It also runs an opportunistic sweep before anything else.
func (c *Cache[K, V]) GetOrCompute(ctx context.Context, key K, compute ComputeFunc[K, V], ttl time.Duration) (V, error) {
	c.maybeSweep()

	b := c.resolveBucket(key)
	if e, ok := b.get(key); ok {
		e.renew(c.options.clock.Now().Add(ttl))
		return e.value, nil
	}

	ch, leader := c.flight.register(key)
	if leader {
		c.computeAndStore(ctx, b, key, compute, ttl)
	}
	select {
	case res := <-ch:
		if res.err != nil {
			if res.err == errGoexit {
				runtime.Goexit()
			}
			var zero V
			return zero, res.err
		}
		res.entry.renew(c.options.clock.Now().Add(ttl))
		return res.entry.value, nil
	case <-ctx.Done():
		go func() {
			<-ch
		}()
		var zero V
		return zero, ctx.Err()
	}
}

// computeAndStore computes the value on the calling goroutine and delivers
// the stored entry, or the failure, to every caller waiting on the key.
func (c *Cache[K, V]) computeAndStore(ctx context.Context, b *bucket[K, V], key K, compute ComputeFunc[K, V], ttl time.Duration) {
	// an earlier flight may have stored the entry after our lookup missed
	if e, ok := b.get(key); ok {
		c.flight.finish(key, flightResult[V]{entry: e})
		return
	}

	r := panicutil.Recoverer{
		OnGoexit: func() {
			c.flight.finish(key, flightResult[V]{err: errGoexit})
		},
	}

	var value V
	if err := r.Invoke(func() (err error) {
		value, err = compute(ctx, key)
		return
	}); err != nil {
		c.flight.finish(key, flightResult[V]{err: err})
		return
	}

	e := newEntry(value, c.options.clock.Now().Add(ttl))
	b.set(key, e)
	c.flight.finish(key, flightResult[V]{entry: e})
}

// Remove takes the entry for the key out of the cache, if present, and
// disposes its value unconditionally: explicit removal bypasses the disposal
// predicate. It then runs an opportunistic sweep. Absent keys are a no-op.
func (c *Cache[K, V]) Remove(key K) {
	if e, ok := c.resolveBucket(key).take(key); ok {
		c.dispose(e.value)
	}
	c.maybeSweep()
}

// Clear removes and disposes every entry currently in the cache.
// The disposal predicate is not consulted. Clearing is atomic per bucket,
// not for the cache as a whole; disposal runs after each bucket is detached.
func (c *Cache[K, V]) Clear() {
	for _, b := range c.buckets {
		for _, e := range b.takeAll() {
			c.dispose(e.value)
		}
	}
}

// Entries returns a point-in-time snapshot of key to value mappings,
// including entries already past their deadline but not yet swept.
// Values pass through the configured ValueCloner; with the default
// NopValueCloner the snapshot map is a copy but the values are shared.
func (c *Cache[K, V]) Entries() map[K]V {
	entries := make(map[K]V, c.Len())
	for _, b := range c.buckets {
		b.mu.RLock()
		for key, e := range b.m {
			entries[key] = c.options.cloner.CloneValue(e.value)
		}
		b.mu.RUnlock()
	}
	return entries
}

// Len returns the current entry count, including entries already past their
// deadline but not yet swept.
func (c *Cache[K, V]) Len() int {
	var n int
	for _, b := range c.buckets {
		n += b.len()
	}
	return n
}

// SetSweepInterval updates the sweep interval and resets the next sweep
// deadline to now+interval. It does not trigger a sweep itself.
// The interval must be positive.
func (c *Cache[K, V]) SetSweepInterval(interval time.Duration) {
	if interval <= 0 {
		panic("sweep interval must be positive")
	}
	c.sweepInterval.Store(int64(interval))
	c.nextSweep.Store(c.nowNanos() + int64(interval))
}

// SweepNow runs a sweep immediately, bypassing the sweep deadline gate, and
// resets the deadline to now+interval. It is the maintenance entry point for
// intervalsweeper and is also handy in tests.
func (c *Cache[K, V]) SweepNow() {
	c.nextSweep.Store(c.nowNanos() + c.sweepInterval.Load())
	c.sweep()
}

// maybeSweep runs a sweep if the sweep deadline has elapsed.
// The deadline advance is a compare-and-swap so that concurrent callers
// observing the elapsed deadline trigger exactly one sweep; the losers skip
// the sweep and proceed without waiting.
func (c *Cache[K, V]) maybeSweep() {
	now := c.nowNanos()
	next := c.nextSweep.Load()
	if now < next {
		return
	}
	if !c.nextSweep.CompareAndSwap(next, now+c.sweepInterval.Load()) {
		return
	}
	c.sweep()
}

// sweep visits every key currently in the cache and removes and disposes
// those that are both past their deadline and approved by the disposal
// predicate. It holds no cache-wide lock: keys are snapshotted per bucket and
// each key's re-check and removal is independently atomic. Entries inserted
// or renewed during the sweep may or may not be visited; a just-renewed entry
// fails the deadline check either way.
func (c *Cache[K, V]) sweep() {
	for _, b := range c.buckets {
		for _, key := range b.keys() {
			c.removeIfExpired(b, key)
		}
	}
}

// removeIfExpired removes and disposes the entry for the key if it is past
// its deadline and the disposal predicate approves it. The predicate runs
// outside the bucket lock; the removal re-checks the entry's identity and
// deadline under the lock, so an entry renewed or replaced in between stays.
// A key already removed by another caller is a no-op.
func (c *Cache[K, V]) removeIfExpired(b *bucket[K, V], key K) {
	e, ok := b.get(key)
	if !ok {
		return
	}
	if !c.options.policy.Expired(c.options.clock.Now(), e.expiresAt()) {
		return
	}
	if c.options.shouldDispose != nil && !c.options.shouldDispose(e.value) {
		return
	}

	removed := b.takeIf(key, e, func(cur *entry[V]) bool {
		return c.options.policy.Expired(c.options.clock.Now(), cur.expiresAt())
	})
	if removed {
		c.dispose(e.value)
	}
}

func (c *Cache[K, V]) dispose(value V) {
	if c.options.dispose != nil {
		c.options.dispose(value)
	}
}

func (c *Cache[K, V]) resolveBucket(key K) *bucket[K, V] {
	if len(c.buckets) == 1 {
		return c.buckets[0]
	}
	index := c.options.hashKey(key) % len(c.buckets)
	if index < 0 {
		index *= -1
	}
	return c.buckets[index]
}

func (c *Cache[K, V]) nowNanos() int64 {
	return c.options.clock.Now().UnixNano()
}
