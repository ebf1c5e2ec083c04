package slidingcache

import (
	"sync"
)

// bucket is one shard of the cache store.
type bucket[K KeyConstraint, V ValueConstraint] struct {
	m  map[K]*entry[V]
	mu sync.RWMutex
}

func newBucket[K KeyConstraint, V ValueConstraint]() *bucket[K, V] {
	return &bucket[K, V]{m: map[K]*entry[V]{}}
}

func (b *bucket[K, V]) get(key K) (*entry[V], bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.m[key]
	return e, ok
}

func (b *bucket[K, V]) set(key K, e *entry[V]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.m[key] = e
}

// take removes and returns the entry for the key, if any.
func (b *bucket[K, V]) take(key K) (*entry[V], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.m[key]
	if ok {
		delete(b.m, key)
	}
	return e, ok
}

// takeIf removes the entry for the key only if it is still the given one and
// cond approves it. The condition runs under the bucket write lock, so it
// must be cheap and must not call back into the cache.
func (b *bucket[K, V]) takeIf(key K, e *entry[V], cond func(*entry[V]) bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.m[key]
	if !ok || cur != e || !cond(cur) {
		return false
	}
	delete(b.m, key)
	return true
}

// takeAll removes all entries, returning the detached map.
func (b *bucket[K, V]) takeAll() map[K]*entry[V] {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.m
	b.m = map[K]*entry[V]{}
	return m
}

func (b *bucket[K, V]) keys() []K {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]K, 0, len(b.m))
	for key := range b.m {
		keys = append(keys, key)
	}
	return keys
}

func (b *bucket[K, V]) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.m)
}
