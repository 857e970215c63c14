package observe

import (
	"context"
	"time"
)

// OperationFunc is a single cache operation. It reports whether the
// operation hit a stored value and any error the backend contained.
type OperationFunc func(ctx context.Context) (hit bool, err error)

// Middleware wraps cache operations with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware. Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// Observe runs fn inside a span and records its outcome.
func (m *Middleware) Observe(ctx context.Context, meta OpMeta, fn OperationFunc) (bool, error) {
	ctx, span := m.tracer.StartSpan(ctx, meta)
	start := time.Now()

	hit, err := fn(ctx)

	duration := time.Since(start)
	m.tracer.EndSpan(span, hit, err)
	m.metrics.RecordOperation(ctx, meta, duration, hit, err)

	fields := []Field{
		{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
	}
	if meta.Op == "get" {
		fields = append(fields, Field{Key: "hit", Value: hit})
	}

	opLogger := m.logger.WithOp(meta)
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		opLogger.Error(ctx, "cache operation failed", fields...)
	} else {
		opLogger.Debug(ctx, "cache operation completed", fields...)
	}

	return hit, err
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
