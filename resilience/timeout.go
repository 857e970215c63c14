package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures a Timeout.
type TimeoutConfig struct {
	// Timeout bounds the whole operation. Default: 30 seconds
	Timeout time.Duration
}

// Timeout bounds how long the caller waits for an operation.
//
// The operation keeps running in its goroutine after the deadline; it is
// expected to observe ctx and return promptly.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a Timeout, filling in defaults.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Timeout{config: config}
}

// Execute runs op with a derived deadline. It returns ErrTimeout when the
// deadline fires first and the parent context's error when that ends first.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- op(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Config returns the effective configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// ExecuteWithTimeout runs op bounded by timeout. A non-positive timeout runs
// op directly on ctx.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	if timeout <= 0 {
		return op(ctx)
	}
	return NewTimeout(TimeoutConfig{Timeout: timeout}).Execute(ctx, op)
}
