// Package intervalsweeper provides an opt-in background sweeper for caches.
//
// The core cache performs maintenance lazily, driven by caller traffic, so an
// idle cache never disposes its entries. IntervalSweeper covers deployments
// that need cleanup even under total cache inactivity by running the cache's
// sweep on a fixed interval from a background goroutine.
package intervalsweeper

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/panics"
)

// Sweepable is the part of the cache the sweeper drives.
type Sweepable interface {
	// SweepNow runs a maintenance sweep immediately.
	SweepNow()
}

// IntervalSweeper periodically sweeps a cache from a background goroutine.
// It exists for caches whose entries hold resources that must be released
// within bounded time even when nothing touches the cache.
type IntervalSweeper struct {
	cache             Sweepable
	interval          time.Duration
	onBackgroundPanic func(*panics.Recovered)
}

// NewIntervalSweeper creates a new IntervalSweeper.
// Disposal functions run inside the sweep; onBackgroundPanic receives any
// panic they raise so a misbehaving disposal cannot kill the process from a
// background goroutine. It must not be nil.
func NewIntervalSweeper(cache Sweepable, interval time.Duration, onBackgroundPanic func(*panics.Recovered)) *IntervalSweeper {
	if onBackgroundPanic == nil {
		panic("onBackgroundPanic must not be nil")
	}
	return &IntervalSweeper{
		cache:             cache,
		interval:          interval,
		onBackgroundPanic: onBackgroundPanic,
	}
}

// LaunchBackgroundSweeper starts the background sweeper.
// The sweeper stops when the given context is canceled.
func (s *IntervalSweeper) LaunchBackgroundSweeper(ctx context.Context) {
	go s.poll(ctx)
}

// poll sweeps the cache at the fixed interval.
func (s *IntervalSweeper) poll(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *IntervalSweeper) sweep() {
	var pc panics.Catcher
	pc.Try(s.cache.SweepNow)
	if r := pc.Recovered(); r != nil {
		s.onBackgroundPanic(r)
	}
}
