// Package resilience guards calls into the remote cache store.
//
// The cache layer never lets a store failure reach its callers, but it still
// has to avoid hammering a store that is down, waiting forever on a slow
// cluster scan, or giving up on the first refused connection at startup.
// This package provides the small set of patterns used for that:
//
//   - CircuitBreaker: after repeated store failures, short-circuits further
//     calls for a cooldown so misses are served without a network round trip.
//
//   - Retry: retries startup checks (PING, secret lookups) with backoff.
//
//   - Timeout: bounds an operation, such as a pattern scan across every node.
//
//   - RateLimiter: token bucket used to throttle admin purge requests.
//
// Executor composes them:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 10 * time.Second,
//	    })),
//	    resilience.WithTimeout(30*time.Second),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return client.Ping(ctx).Err()
//	})
package resilience
