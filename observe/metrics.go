package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache operation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordOperation records one cache operation. hit is only meaningful for gets.
	RecordOperation(ctx context.Context, meta OpMeta, duration time.Duration, hit bool, err error)
}

type metricsImpl struct {
	total    metric.Int64Counter
	hits     metric.Int64Counter
	misses   metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance registering its instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	total, err := meter.Int64Counter(
		"cache.ops.total",
		metric.WithDescription("Total number of cache operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	hits, err := meter.Int64Counter(
		"cache.ops.hits",
		metric.WithDescription("Cache lookups that returned a stored value"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"cache.ops.misses",
		metric.WithDescription("Cache lookups that found nothing"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(
		"cache.ops.errors",
		metric.WithDescription("Cache operations that failed inside the backend"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"cache.ops.duration_ms",
		metric.WithDescription("Cache operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		total:    total,
		hits:     hits,
		misses:   misses,
		errors:   errs,
		duration: duration,
	}, nil
}

func (m *metricsImpl) RecordOperation(ctx context.Context, meta OpMeta, duration time.Duration, hit bool, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.total.Add(ctx, 1, opt)
	if meta.Op == "get" {
		if hit {
			m.hits.Add(ctx, 1, opt)
		} else {
			m.misses.Add(ctx, 1, opt)
		}
	}
	if err != nil {
		m.errors.Add(ctx, 1, opt)
	}
	m.duration.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

type noopMetrics struct{}

// NewNoopMetrics returns a Metrics implementation that records nothing.
func NewNoopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordOperation(context.Context, OpMeta, time.Duration, bool, error) {}
