package intervalsweeper_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/karupanerura/sliding-cache/intervalsweeper"
	"github.com/sourcegraph/conc/panics"
)

type mockSweepable func()

func (f mockSweepable) SweepNow() {
	f()
}

func TestLaunchBackgroundSweeper(t *testing.T) {
	t.Parallel()

	var callCount uint32
	cache := mockSweepable(func() {
		atomic.AddUint32(&callCount, 1)
	})

	var bgPanics []*panics.Recovered
	var mu sync.Mutex
	sweeper := intervalsweeper.NewIntervalSweeper(cache, 100*time.Millisecond, func(r *panics.Recovered) {
		mu.Lock()
		defer mu.Unlock()
		bgPanics = append(bgPanics, r)
	})
	sweeper.LaunchBackgroundSweeper(t.Context())

	time.Sleep(50 * time.Millisecond)
	if atomic.LoadUint32(&callCount) != 0 {
		t.Errorf("expect no sweep before the first interval elapses")
	}

	time.Sleep(100 * time.Millisecond)
	if atomic.LoadUint32(&callCount) == 0 {
		t.Errorf("expect to be swept after the first interval")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(bgPanics) != 0 {
		t.Errorf("should no background panics, but got: %+v", bgPanics)
	}
}

func TestLaunchBackgroundSweeper_Stop(t *testing.T) {
	t.Parallel()

	var callCount uint32
	cache := mockSweepable(func() {
		atomic.AddUint32(&callCount, 1)
	})

	ctx, cancel := context.WithCancel(t.Context())
	sweeper := intervalsweeper.NewIntervalSweeper(cache, 50*time.Millisecond, func(r *panics.Recovered) {
		t.Errorf("unexpected background panic: %+v", r)
	})
	sweeper.LaunchBackgroundSweeper(ctx)
	cancel()

	time.Sleep(150 * time.Millisecond)
	if got := atomic.LoadUint32(&callCount); got > 1 {
		t.Errorf("expect the sweeper to stop after cancellation, but swept %d times", got)
	}
}

func TestLaunchBackgroundSweeper_Panic(t *testing.T) {
	t.Parallel()

	cache := mockSweepable(func() {
		panic("disposal gone wrong")
	})

	var bgPanics []*panics.Recovered
	var mu sync.Mutex
	sweeper := intervalsweeper.NewIntervalSweeper(cache, 50*time.Millisecond, func(r *panics.Recovered) {
		mu.Lock()
		defer mu.Unlock()
		bgPanics = append(bgPanics, r)
	})
	sweeper.LaunchBackgroundSweeper(t.Context())

	time.Sleep(120 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(bgPanics) == 0 {
		t.Fatal("expected the sweeper to catch the disposal panic")
	}
	if got := bgPanics[0].Value; got != "disposal gone wrong" {
		t.Errorf("unexpected panic value: %v", got)
	}
}

func TestNewIntervalSweeper_NilCallback(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for nil callback, but did not panic")
		}
	}()
	intervalsweeper.NewIntervalSweeper(mockSweepable(func() {}), time.Minute, nil)
}
