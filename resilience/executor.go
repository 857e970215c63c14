package resilience

import (
	"context"
	"time"
)

// Executor composes the guards in a fixed order, outermost first:
// rate limiter, circuit breaker, retry, timeout.
//
// The breaker sits outside retry so one logical call that exhausts its
// attempts counts as a single failure.
type Executor struct {
	rateLimiter    *RateLimiter
	circuitBreaker *CircuitBreaker
	retry          *Retry
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an Executor. With no options it simply runs op.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker guards calls with cb.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) { e.circuitBreaker = cb }
}

// WithRetry retries failed calls with r.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) { e.retry = r }
}

// WithRateLimiter throttles calls with rl.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) { e.rateLimiter = rl }
}

// WithTimeout bounds each attempt. Non-positive values are ignored.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = NewTimeout(TimeoutConfig{Timeout: d})
		}
	}
}

// CircuitBreaker returns the configured breaker, or nil.
func (e *Executor) CircuitBreaker() *CircuitBreaker {
	return e.circuitBreaker
}

// Execute runs op through every configured guard.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	run := op

	if e.timeout != nil {
		inner := run
		run = func(ctx context.Context) error { return e.timeout.Execute(ctx, inner) }
	}
	if e.retry != nil {
		inner := run
		run = func(ctx context.Context) error { return e.retry.Execute(ctx, inner) }
	}
	if e.circuitBreaker != nil {
		inner := run
		run = func(ctx context.Context) error { return e.circuitBreaker.Execute(ctx, inner) }
	}
	if e.rateLimiter != nil {
		inner := run
		run = func(ctx context.Context) error { return e.rateLimiter.Execute(ctx, inner) }
	}

	return run(ctx)
}
