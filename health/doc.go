// Package health reports whether the cache store is usable.
//
// Checkers produce a Result; an Aggregator runs them concurrently under a
// shared timeout and folds them into one Status. Two checkers cover the
// cache: PingChecker for anything with a Ping method (the redis backend),
// and BackendChecker, which writes and reads back a probe entry.
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewPingChecker("redis", redisBackend, 50*time.Millisecond))
//	agg.Register(health.NewBackendChecker(backend))
//	health.RegisterHandlers(mux, agg)
package health
