package expiry_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/karupanerura/sliding-cache/expiry"
)

func TestDeadline(t *testing.T) {
	t.Parallel()

	policy := expiry.Deadline{}
	now := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     bool
	}{
		{
			name:     "not expired when deadline is in future",
			deadline: now.Add(1),
			want:     false,
		},
		{
			name:     "expired when deadline is exactly now",
			deadline: now,
			want:     true,
		},
		{
			name:     "expired when deadline is in past",
			deadline: now.Add(-1),
			want:     true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := policy.Expired(now, tt.deadline); got != tt.want {
				t.Errorf("Deadline.Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNever(t *testing.T) {
	t.Parallel()

	policy := expiry.Never{}
	now := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
	}{
		{
			name:     "not expired when deadline is in future",
			deadline: now.Add(1),
		},
		{
			name:     "not expired when deadline is exactly now",
			deadline: now,
		},
		{
			name:     "not expired even when deadline is in past",
			deadline: now.Add(-1),
		},
		{
			name:     "not expired even when deadline is far in past",
			deadline: now.Add(-1000 * time.Hour),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := policy.Expired(now, tt.deadline); got != false {
				t.Errorf("Never.Expired() = %v, want false", got)
			}
		})
	}
}

func TestJittered(t *testing.T) {
	t.Parallel()

	now := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	earlyDuration := 10 * time.Minute

	t.Run("use default random generator", func(t *testing.T) {
		t.Parallel()

		policy := &expiry.Jittered{
			Duration:   earlyDuration,
			Percentage: 0.5,
		}

		// random behavior is not deterministic, so just ensure no panic
		policy.Expired(now, now.Add(5*time.Minute))
	})

	t.Run("percentage 0 behaves like Deadline", func(t *testing.T) {
		t.Parallel()

		policy := &expiry.Jittered{
			Duration:   earlyDuration,
			Percentage: 0,
			Random:     rand.New(rand.NewPCG(42, 54)),
		}

		for i := 0; i < 100; i++ {
			if policy.Expired(now, now.Add(5*time.Minute)) {
				t.Fatal("expected not expired before deadline when percentage is 0")
			}
			if !policy.Expired(now, now.Add(-1)) {
				t.Fatal("expected expired after deadline when percentage is 0")
			}
		}
	})

	t.Run("percentage 1 always expires early", func(t *testing.T) {
		t.Parallel()

		policy := &expiry.Jittered{
			Duration:   earlyDuration,
			Percentage: 1.0,
			Random:     rand.New(rand.NewPCG(42, 54)),
		}

		for i := 0; i < 100; i++ {
			if !policy.Expired(now, now.Add(5*time.Minute)) {
				t.Fatal("expected expired when deadline is within the early duration")
			}
			if policy.Expired(now, now.Add(earlyDuration+time.Second)) {
				t.Fatal("expected not expired when deadline is beyond the early duration")
			}
		}
	})
}
