package expiry

import (
	"math/rand/v2"
	"time"
)

// Policy decides whether a cached entry is past its deadline.
// Implementations must be safe for concurrent use.
type Policy interface {
	// Expired returns true if the entry with the given deadline should be
	// treated as expired at the given time.
	Expired(now, deadline time.Time) bool
}

// Deadline is the standard time-based policy: an entry is expired once the
// current time reaches its deadline.
type Deadline struct{}

var _ Policy = Deadline{}

// Expired returns true if now is at or past the deadline.
func (Deadline) Expired(now, deadline time.Time) bool {
	return !deadline.After(now)
}

// Never is a policy that never expires an entry.
// Useful for pinning entries while still keeping the sweep wiring in place.
type Never struct{}

var _ Policy = Never{}

// Expired always returns false.
func (Never) Expired(now, deadline time.Time) bool {
	return false
}

// Jittered is a policy that can treat an entry as expired before its actual
// deadline. When many entries share a deadline, a plain policy removes and
// disposes all of them in a single sweep; with Jittered some of them become
// eligible one sweep earlier, spreading the disposal cost over time.
type Jittered struct {
	// Duration is how much earlier an entry may be treated as expired.
	Duration time.Duration

	// Percentage is the chance (between 0 and 1) that the early check is
	// used for a given call. 0 means never early, 1 means always early.
	Percentage float64

	// Random is the random number generator used to decide early expiry.
	// If nil, the system default generator is used. Set a seeded generator
	// for deterministic behavior in tests.
	Random *rand.Rand
}

var _ Policy = (*Jittered)(nil)

// Expired checks the deadline, shifted Duration earlier with probability
// Percentage.
func (p *Jittered) Expired(now, deadline time.Time) bool {
	if p.randFloat64() > p.Percentage {
		return !deadline.After(now)
	}
	return !deadline.After(now.Add(p.Duration))
}

func (p *Jittered) randFloat64() float64 {
	if p.Random == nil {
		return rand.Float64()
	}
	return p.Random.Float64()
}
