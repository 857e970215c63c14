package health

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jonwraymond/respcache/cache"
)

// Status is the health of a component.
type Status int

const (
	StatusHealthy Status = iota
	StatusDegraded
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one check.
type Result struct {
	Status    Status
	Message   string
	Details   map[string]any
	Duration  time.Duration
	Timestamp time.Time
	Error     error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, Timestamp: time.Now()}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message, Timestamp: time.Now()}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err, Timestamp: time.Now()}
}

// WithDetails returns r with details attached.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker reports the health of one component.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc creates a CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

func (f *CheckerFunc) Name() string                     { return f.name }
func (f *CheckerFunc) Check(ctx context.Context) Result { return f.fn(ctx) }

// Pinger is anything that can confirm its remote end is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker reports a Pinger as unhealthy when Ping fails and degraded
// when it answers slower than the threshold.
type PingChecker struct {
	name      string
	target    Pinger
	threshold time.Duration
}

// NewPingChecker creates a PingChecker. A zero threshold never degrades.
func NewPingChecker(name string, target Pinger, threshold time.Duration) *PingChecker {
	return &PingChecker{name: name, target: target, threshold: threshold}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) Result {
	start := time.Now()
	err := c.target.Ping(ctx)
	latency := time.Since(start)
	details := map[string]any{"latency": latency.String()}

	switch {
	case err != nil:
		return Unhealthy("ping failed", err).WithDetails(details)
	case c.threshold > 0 && latency > c.threshold:
		return Degraded(fmt.Sprintf("ping slower than %s", c.threshold)).WithDetails(details)
	default:
		return Healthy("ping ok").WithDetails(details)
	}
}

// ProbeKey is the logical key BackendChecker writes.
const ProbeKey = "health|probe"

// BackendChecker writes a short-lived probe entry and reads it back.
// Backends contain their own failures, so a lost write is the only signal
// that the store is unusable.
type BackendChecker struct {
	backend cache.Backend
	now     func() time.Time
}

// NewBackendChecker creates a BackendChecker.
func NewBackendChecker(backend cache.Backend) *BackendChecker {
	return &BackendChecker{backend: backend, now: time.Now}
}

func (c *BackendChecker) Name() string { return "cache" }

func (c *BackendChecker) Check(ctx context.Context) Result {
	kind := string(c.backend.Kind())
	details := map[string]any{"backend": kind}
	if c.backend.Kind() == cache.KindDisabled {
		return Healthy("cache disabled").WithDetails(details)
	}

	want := strconv.FormatInt(c.now().UnixNano(), 10)
	c.backend.Set(ctx, ProbeKey, want, cache.WithAbsoluteExpiration(time.Minute))

	got, ok := cache.Get[string](ctx, c.backend, ProbeKey)
	switch {
	case !ok:
		return Unhealthy("probe entry not readable", ErrProbeMismatch).WithDetails(details)
	case got != want:
		// Another instance may have written between our Set and Get.
		return Degraded("probe entry overwritten").WithDetails(details)
	default:
		return Healthy(kind + " round trip ok").WithDetails(details)
	}
}

var (
	_ Checker = (*CheckerFunc)(nil)
	_ Checker = (*PingChecker)(nil)
	_ Checker = (*BackendChecker)(nil)
)
