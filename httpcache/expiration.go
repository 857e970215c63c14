package httpcache

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidExpiration indicates an expiration string that is neither a Go
// duration nor a [d.]hh:mm:ss span.
var ErrInvalidExpiration = errors.New("httpcache: invalid expiration")

// ParseExpirations parses an optional absolute and an optional sliding
// expiration, in that order. Empty strings mean "not set".
func ParseExpirations(values ...string) (absolute, sliding time.Duration, err error) {
	if len(values) > 2 {
		return 0, 0, fmt.Errorf("%w: at most two values, got %d", ErrInvalidExpiration, len(values))
	}
	spans := make([]time.Duration, 2)
	for i, v := range values {
		if spans[i], err = ParseSpan(v); err != nil {
			return 0, 0, err
		}
	}
	return spans[0], spans[1], nil
}

// ParseSpan accepts "90s", "1h30m", "01:30:00" or "1.00:00:00".
func ParseSpan(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	var days int
	clock := s
	if dayPart, rest, ok := strings.Cut(s, "."); ok && strings.Contains(rest, ":") {
		n, err := strconv.Atoi(dayPart)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidExpiration, s)
		}
		days, clock = n, rest
	}

	fields := strings.Split(clock, ":")
	if len(fields) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidExpiration, s)
	}
	var parts [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidExpiration, s)
		}
		parts[i] = n
	}
	if parts[1] > 59 || parts[2] > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidExpiration, s)
	}
	return time.Duration(days)*24*time.Hour +
		time.Duration(parts[0])*time.Hour +
		time.Duration(parts[1])*time.Minute +
		time.Duration(parts[2])*time.Second, nil
}
