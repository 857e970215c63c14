package resilience

import (
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	for _, err := range []error{ErrCircuitOpen, ErrMaxRetriesExceeded, ErrRateLimitExceeded, ErrTimeout} {
		if !strings.HasPrefix(err.Error(), "resilience: ") {
			t.Errorf("%q lacks package prefix", err)
		}
	}
}
