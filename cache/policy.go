package cache

import (
	"math"
	"time"
)

// DefaultAbsoluteExpiration applies when neither the call nor the
// configuration supplies a usable expiration.
const DefaultAbsoluteExpiration = time.Hour

// Policy holds the configured default expirations.
type Policy struct {
	// AbsoluteExpiration is the default lifetime from write.
	AbsoluteExpiration time.Duration

	// SlidingExpiration, if set, is the default idle lifetime.
	SlidingExpiration time.Duration
}

// DefaultPolicy returns a one-hour absolute expiration and no sliding window.
func DefaultPolicy() Policy {
	return Policy{AbsoluteExpiration: DefaultAbsoluteExpiration}
}

// Expiration is the resolved lifetime of one entry.
type Expiration struct {
	TTL time.Duration
	// Sliding entries have their TTL restarted on every read.
	Sliding bool
}

// Resolve picks the effective expiration for a write. The first usable span
// wins, in order: per-call sliding, per-call absolute, default sliding,
// default absolute, one hour.
func (p Policy) Resolve(absolute, sliding time.Duration) Expiration {
	switch {
	case usable(sliding):
		return Expiration{TTL: sliding, Sliding: true}
	case usable(absolute):
		return Expiration{TTL: absolute}
	case usable(p.SlidingExpiration):
		return Expiration{TTL: p.SlidingExpiration, Sliding: true}
	case usable(p.AbsoluteExpiration):
		return Expiration{TTL: p.AbsoluteExpiration}
	default:
		return Expiration{TTL: DefaultAbsoluteExpiration}
	}
}

// usable rejects zero, negative and max-value spans.
func usable(d time.Duration) bool {
	return d > 0 && d != time.Duration(math.MaxInt64)
}
