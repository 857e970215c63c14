package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures a RateLimiter.
type RateLimiterConfig struct {
	// Rate is tokens added per second. Default: 1
	Rate float64

	// Burst is the bucket capacity. Default: 5
	Burst int

	// WaitOnLimit makes Execute wait up to MaxWait for a token.
	WaitOnLimit bool

	// MaxWait caps how long Execute waits. Default: 1 second
	MaxWait time.Duration
}

// RateLimiter is a token bucket.
//
// Contract:
// - Concurrency: safe for concurrent use.
type RateLimiter struct {
	config RateLimiterConfig
	now    func() time.Time

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 1
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}
	return &RateLimiter{
		config: config,
		now:    time.Now,
		tokens: float64(config.Burst),
		last:   time.Now(),
	}
}

// Allow takes one token if available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	if rl.tokens < 1 {
		return false
	}
	rl.tokens--
	return true
}

// Wait blocks until a token is taken, MaxWait passes, or ctx ends.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	deadline := time.NewTimer(rl.config.MaxWait)
	defer deadline.Stop()

	for {
		if rl.Allow() {
			return nil
		}

		rl.mu.Lock()
		need := time.Duration((1 - rl.tokens) / rl.config.Rate * float64(time.Second))
		rl.mu.Unlock()

		tick := time.NewTimer(need)
		select {
		case <-ctx.Done():
			tick.Stop()
			return ctx.Err()
		case <-deadline.C:
			tick.Stop()
			return ErrRateLimitExceeded
		case <-tick.C:
		}
	}
}

// Execute runs op when a token is available.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if rl.config.WaitOnLimit {
		if err := rl.Wait(ctx); err != nil {
			return err
		}
	} else if !rl.Allow() {
		return ErrRateLimitExceeded
	}
	return op(ctx)
}

// Tokens returns the tokens currently available.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

func (rl *RateLimiter) refillLocked() {
	now := rl.now()
	rl.tokens += now.Sub(rl.last).Seconds() * rl.config.Rate
	rl.last = now
	if limit := float64(rl.config.Burst); rl.tokens > limit {
		rl.tokens = limit
	}
}
