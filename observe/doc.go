// Package observe provides observability primitives for cache operations.
//
// It wires OpenTelemetry tracing and metrics together with a zap-backed
// structured Logger. Backends receive a Middleware and run each store call
// through Observe, which is also where contained backend failures get logged.
package observe
