package slidingcache

import (
	"errors"
	"sync"
)

var errGoexit = errors.New("runtime.Goexit is called")

// flightResult carries either the stored entry or the compute failure to a
// caller waiting on a key.
type flightResult[V ValueConstraint] struct {
	entry *entry[V]
	err   error
}

// flightGroup deduplicates concurrent computations per key.
// Callers for the same absent key join a waitlist; the first registrant
// becomes the leader and computes, everyone receives the leader's result.
type flightGroup[K KeyConstraint, V ValueConstraint] struct {
	mu        sync.Mutex
	waitlists map[K][]chan flightResult[V]
}

// register joins the waitlist for the key and reports whether the caller is
// the leader responsible for computing the value.
func (g *flightGroup[K, V]) register(key K) (chan flightResult[V], bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch := make(chan flightResult[V], 1)
	g.waitlists[key] = append(g.waitlists[key], ch)
	return ch, len(g.waitlists[key]) == 1
}

// finish delivers the result to every caller waiting on the key, including
// any that joined while the leader was computing, and resets the waitlist.
func (g *flightGroup[K, V]) finish(key K, res flightResult[V]) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, ch := range g.waitlists[key] {
		ch <- res
		close(ch)
	}
	g.waitlists[key] = g.waitlists[key][:0]
}
