package health

import "errors"

var (
	// ErrCheckTimeout indicates a check outlived the aggregator timeout.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates no checker is registered under a name.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrProbeMismatch indicates the cache returned something other than
	// the probe value just written.
	ErrProbeMismatch = errors.New("health: probe mismatch")
)
