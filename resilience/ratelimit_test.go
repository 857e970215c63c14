package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 3})
	frozen := time.Now()
	rl.now = func() time.Time { return frozen }
	rl.last = frozen

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("Allow() #%d = false, want true", i+1)
		}
	}
	if rl.Allow() {
		t.Error("Allow() beyond burst = true, want false")
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 2, Burst: 2})
	clock := time.Now()
	rl.now = func() time.Time { return clock }
	rl.last = clock

	rl.Allow()
	rl.Allow()
	if rl.Allow() {
		t.Fatal("bucket should be empty")
	}

	clock = clock.Add(500 * time.Millisecond)
	if !rl.Allow() {
		t.Error("expected one token after 500ms at 2/s")
	}

	clock = clock.Add(time.Hour)
	if got := rl.Tokens(); got != 2 {
		t.Errorf("Tokens() = %v, want capped at 2", got)
	}
}

func TestRateLimiter_Execute(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1})
	ctx := context.Background()

	if err := rl.Execute(ctx, succeed); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if err := rl.Execute(ctx, succeed); !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("second Execute() error = %v, want ErrRateLimitExceeded", err)
	}
}

func TestRateLimiter_WaitGivesUpAfterMaxWait(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1, WaitOnLimit: true, MaxWait: 10 * time.Millisecond})
	ctx := context.Background()

	_ = rl.Execute(ctx, succeed)
	if err := rl.Execute(ctx, succeed); !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("Execute() error = %v, want ErrRateLimitExceeded", err)
	}
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1, MaxWait: time.Hour})
	rl.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
}
