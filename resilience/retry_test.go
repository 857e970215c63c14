package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRetry_Defaults(t *testing.T) {
	cfg := NewRetry(RetryConfig{}).Config()
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != 100*time.Millisecond {
		t.Errorf("InitialDelay = %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 10*time.Second {
		t.Errorf("MaxDelay = %v", cfg.MaxDelay)
	}
	if cfg.Multiplier != 2.0 {
		t.Errorf("Multiplier = %v", cfg.Multiplier)
	}
}

func TestRetry_Execute(t *testing.T) {
	tests := []struct {
		name      string
		failFirst int
		retryIf   func(error) bool
		wantCalls int
		wantErr   error
	}{
		{name: "first try", failFirst: 0, wantCalls: 1},
		{name: "recovers", failFirst: 2, wantCalls: 3},
		{name: "exhausted", failFirst: 10, wantCalls: 3, wantErr: ErrMaxRetriesExceeded},
		{
			name:      "not retryable",
			failFirst: 10,
			retryIf:   func(error) bool { return false },
			wantCalls: 1,
			wantErr:   errStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRetry(RetryConfig{
				MaxAttempts:  3,
				InitialDelay: time.Millisecond,
				Strategy:     BackoffConstant,
				RetryIf:      tt.retryIf,
			})

			calls := 0
			err := r.Execute(context.Background(), func(context.Context) error {
				calls++
				if calls <= tt.failFirst {
					return errStore
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetry_ExhaustedWrapsLastError(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond})
	err := r.Execute(context.Background(), fail)
	if !errors.Is(err, errStore) {
		t.Errorf("Execute() error = %v, want it to wrap %v", err, errStore)
	}
}

func TestRetry_OnRetry(t *testing.T) {
	var delays []time.Duration
	r := NewRetry(RetryConfig{
		MaxAttempts:  4,
		InitialDelay: time.Millisecond,
		Multiplier:   2,
		OnRetry: func(_ int, _ error, d time.Duration) {
			delays = append(delays, d)
		},
	})

	_ = r.Execute(context.Background(), fail)

	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetry_DelayCappedAndJittered(t *testing.T) {
	r := NewRetry(RetryConfig{
		InitialDelay: time.Second,
		MaxDelay:     2 * time.Second,
		Jitter:       true,
	})
	for attempt := 1; attempt <= 5; attempt++ {
		d := r.delay(attempt)
		if d < time.Second || d > 2*time.Second+2*time.Second/4 {
			t.Errorf("delay(%d) = %v out of range", attempt, d)
		}
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 5, InitialDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())

	err := r.Execute(ctx, func(context.Context) error {
		cancel()
		return errStore
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}
