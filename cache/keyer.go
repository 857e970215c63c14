package cache

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Keyer derives cache keys from request attributes.
//
// Contract:
// - Determinism: the same inputs yield the same key across processes and hosts.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key returns the fingerprint, or "" when the request must not be cached.
	Key(method, rawURL, body string) string
}

// DefaultKeyer derives keys with DeriveKey.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key implements Keyer.
func (k *DefaultKeyer) Key(method, rawURL, body string) string {
	return DeriveKey(method, rawURL, body)
}

// DeriveKey returns the request fingerprint for method, rawURL and body.
//
// Format: <path segments joined by "|">|<hash>, or just <hash> when the URL
// has no path. The hash covers the upper-cased non-blank inputs, so the
// result is "" only when all three are blank.
func DeriveKey(method, rawURL, body string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{method, rawURL, body} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.ToUpper(p))
		}
	}
	if len(parts) == 0 {
		return ""
	}

	hash := strconv.FormatInt(int64(DeterministicHash(strings.Join(parts, Delimiter))), 10)
	if prefix := pathPrefix(rawURL); prefix != "" {
		return prefix + Delimiter + hash
	}
	return hash
}

// DeterministicHash is a two-accumulator djb2 variant over UTF-16 code units.
// It is unseeded: every process sharing a store must agree on its output.
func DeterministicHash(s string) int32 {
	units := utf16.Encode([]rune(s))

	h1 := int32(5381<<16) + 5381
	h2 := h1
	for i := 0; i < len(units); i += 2 {
		h1 = ((h1 << 5) + h1) ^ int32(units[i])
		if i == len(units)-1 {
			break
		}
		h2 = ((h2 << 5) + h2) ^ int32(units[i+1])
	}
	return h1 + h2*1566083941
}

// pathPrefix joins the non-empty path segments of rawURL with the delimiter.
// A URL without a scheme is read as a bare host, so "url" has no path.
// Unparseable URLs yield no prefix.
func pathPrefix(rawURL string) string {
	if strings.TrimSpace(rawURL) == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	var segments []string
	for _, seg := range strings.Split(u.EscapedPath(), "/") {
		if strings.TrimSpace(seg) != "" {
			segments = append(segments, seg)
		}
	}
	return strings.Join(segments, Delimiter)
}

var _ Keyer = (*DefaultKeyer)(nil)
