package slidingcache

import (
	"time"

	"github.com/karupanerura/sliding-cache/expiry"
	"github.com/karupanerura/sliding-cache/internal/keyhash"
)

// DefaultSweepInterval is the default interval between lazy sweeps.
var DefaultSweepInterval = 10 * time.Minute

// DefaultBucketsSize is the default number of buckets in the cache.
// The default is a single bucket; sharding is opt-in via WithBucketsSize
// because it needs a hash function for the key type.
var DefaultBucketsSize = 1

// Option is the interface for the options of the cache.
type Option[K KeyConstraint, V ValueConstraint] interface {
	apply(*options[K, V])
}

type optionFunc[K KeyConstraint, V ValueConstraint] func(*options[K, V])

func (f optionFunc[K, V]) apply(o *options[K, V]) {
	f(o)
}

// WithSweepInterval sets the interval between lazy sweeps.
// The interval must be positive.
func WithSweepInterval[K KeyConstraint, V ValueConstraint](interval time.Duration) Option[K, V] {
	if interval <= 0 {
		panic("sweep interval must be positive")
	}
	return optionFunc[K, V](func(o *options[K, V]) {
		o.sweepInterval = interval
	})
}

// WithShouldDispose sets the disposal predicate consulted by sweeps.
// An expired entry stays in the cache while the predicate rejects it.
func WithShouldDispose[K KeyConstraint, V ValueConstraint](f ShouldDisposeFunc[V]) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.shouldDispose = f
	})
}

// WithDisposal sets the disposal function invoked on removed values.
func WithDisposal[K KeyConstraint, V ValueConstraint](f DisposeFunc[V]) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.dispose = f
	})
}

// WithClock sets the clock of the cache.
func WithClock[K KeyConstraint, V ValueConstraint](clock Clock) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.clock = clock
	})
}

// WithBucketsSize sets the number of buckets in the cache.
// The number of buckets must be a natural number.
// Sharding needs a hash function for the key type: it is derived
// automatically for primitive key types, other key types require WithKeyHash.
func WithBucketsSize[K KeyConstraint, V ValueConstraint](bucketsSize int) Option[K, V] {
	if bucketsSize <= 0 {
		panic("bucketsSize must be natural number")
	}
	return optionFunc[K, V](func(o *options[K, V]) {
		o.bucketsSize = bucketsSize
	})
}

// WithKeyHash sets the key hash function used to pick a bucket.
func WithKeyHash[K KeyConstraint, V ValueConstraint](f func(K) int) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.hashKey = func(key any) int {
			return f(key.(K))
		}
	})
}

// WithCloner sets the value cloner used by Entries snapshots.
// The default cloner is NopValueCloner.
func WithCloner[K KeyConstraint, V ValueConstraint](cloner ValueCloner[V]) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.cloner = cloner
	})
}

// WithExpiryPolicy sets the policy sweeps use to decide whether an entry is
// past its deadline. The default is expiry.Deadline.
func WithExpiryPolicy[K KeyConstraint, V ValueConstraint](policy expiry.Policy) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.policy = policy
	})
}

type options[K KeyConstraint, V ValueConstraint] struct {
	sweepInterval time.Duration
	shouldDispose ShouldDisposeFunc[V]
	dispose       DisposeFunc[V]
	clock         Clock
	bucketsSize   int
	hashKey       func(any) int
	cloner        ValueCloner[V]
	policy        expiry.Policy
}

func defaultOptions[K KeyConstraint, V ValueConstraint]() options[K, V] {
	return options[K, V]{
		sweepInterval: DefaultSweepInterval,
		clock:         SystemClock,
		bucketsSize:   DefaultBucketsSize,
		cloner:        NopValueCloner[V]{},
		policy:        expiry.Deadline{},
	}
}

// resolveKeyHash derives a hash function when sharding requires one.
func (o *options[K, V]) resolveKeyHash() {
	if o.bucketsSize > 1 && o.hashKey == nil {
		o.hashKey = keyhash.ForType[K]()
	}
}
