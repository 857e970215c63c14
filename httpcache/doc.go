// Package httpcache caches HTTP responses in a cache.Backend.
//
// Middleware keys each request by method, absolute URL and canonical JSON
// body, serves stored 2xx responses, and stores fresh ones. Concurrent
// misses for the same key are collapsed into one upstream call.
// PurgeHandler exposes pattern invalidation over HTTP.
package httpcache
