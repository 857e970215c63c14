package cache

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/respcache/observe"
	"github.com/jonwraymond/respcache/resilience"
)

// Option configures a backend.
type Option func(*options)

type options struct {
	middleware    *observe.Middleware
	logger        observe.Logger
	executor      *resilience.Executor
	startupRetry  *resilience.Retry
	sweepInterval time.Duration
	scanCount     int64
	chunkSize     int
	scanTimeout   time.Duration
	chunkClient   func() redis.UniversalClient
	newClient     func(*redis.UniversalOptions) redis.UniversalClient
}

func newOptions(opts []Option) options {
	o := options{
		scanCount: DefaultScanCount,
		chunkSize: DefaultChunkSize,
		newClient: redis.NewUniversalClient,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.middleware == nil {
		o.middleware = observe.NewMiddleware(nil, nil, o.logger)
	}
	if o.executor == nil {
		o.executor = resilience.NewExecutor()
	}
	if o.startupRetry == nil {
		o.startupRetry = resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			Jitter:       true,
		})
	}
	return o
}

// WithMiddleware records every store call through m.
func WithMiddleware(m *observe.Middleware) Option {
	return func(o *options) { o.middleware = m }
}

// WithLogger logs contained failures to l. Ignored when WithMiddleware is set.
func WithLogger(l observe.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithExecutor guards redis calls with e, typically a circuit breaker.
func WithExecutor(e *resilience.Executor) Option {
	return func(o *options) { o.executor = e }
}

// WithStartupRetry retries the startup PING with r.
func WithStartupRetry(r *resilience.Retry) Option {
	return func(o *options) { o.startupRetry = r }
}

// WithSweepInterval makes the memory backend drop expired entries every d.
// Zero disables the sweeper; expired entries are then dropped on access.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) { o.sweepInterval = d }
}

// WithScanCount sets the COUNT hint for SCAN during pattern removal.
func WithScanCount(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.scanCount = n
		}
	}
}

// WithChunkSize sets how many keys are unlinked per connection.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithScanTimeout bounds the whole cluster scan of a pattern removal. The
// executor's per-call timeout does not apply to the scan.
func WithScanTimeout(d time.Duration) Option {
	return func(o *options) { o.scanTimeout = d }
}

// WithChunkClient opens the connection used for one chunk of deletes.
// The backend closes it once the chunk is issued.
func WithChunkClient(open func() redis.UniversalClient) Option {
	return func(o *options) { o.chunkClient = open }
}

func withClientFactory(fn func(*redis.UniversalOptions) redis.UniversalClient) Option {
	return func(o *options) { o.newClient = fn }
}
