package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTimeout_Default(t *testing.T) {
	if got := NewTimeout(TimeoutConfig{}).Config().Timeout; got != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", got)
	}
}

func TestTimeout_Execute(t *testing.T) {
	tests := []struct {
		name    string
		op      func(context.Context) error
		wantErr error
	}{
		{name: "completes", op: succeed},
		{name: "returns op error", op: fail, wantErr: errStore},
		{
			name: "deadline",
			op: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			wantErr: ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTimeout(TimeoutConfig{Timeout: 20 * time.Millisecond}).Execute(context.Background(), tt.op)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeout_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := NewTimeout(TimeoutConfig{Timeout: time.Second}).Execute(ctx, func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		time.Sleep(5 * time.Millisecond)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestExecuteWithTimeout_NonPositiveRunsDirectly(t *testing.T) {
	called := false
	err := ExecuteWithTimeout(context.Background(), 0, func(ctx context.Context) error {
		called = true
		if _, ok := ctx.Deadline(); ok {
			t.Error("expected no deadline")
		}
		return nil
	})
	if err != nil || !called {
		t.Errorf("ExecuteWithTimeout() = %v, called = %v", err, called)
	}
}
