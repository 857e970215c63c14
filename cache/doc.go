// Package cache is a namespaced response cache with pluggable backends.
//
// Keys are derived from request shape by DeriveKey, prefixed with the
// application and environment by a Namespacer, and stored in one of three
// backends chosen once at startup by New: a no-op Disabled backend, an
// in-process Memory backend, or a Redis backend. Backends never surface
// store failures to callers; they log them and behave as a miss.
package cache
