package httpcache

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		target string
		tls    bool
		want   string
	}{
		{target: "http://example.com/api/users?x=1", want: "http://example.com/api/users?x=1"},
		{target: "http://example.com:8080/a", want: "http://example.com/a"},
		{target: "http://example.com", want: "http://example.com/"},
		{target: "http://example.com/a%2Fb", want: "http://example.com/a%2Fb"},
		{target: "http://example.com/secure", tls: true, want: "https://example.com/secure"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.target, nil)
		if tt.tls {
			req.TLS = &tls.ConnectionState{}
		} else {
			req.TLS = nil
		}
		if got := AbsoluteURL(req); got != tt.want {
			t.Errorf("AbsoluteURL(%s) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestCanonicalBody(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "", want: ""},
		{in: "  ", want: "  "},
		{in: `{ "b": 1, "a": [1, 2] }`, want: `{"a":[1,2],"b":1}`},
		{in: `{"n": 12345678901234567890}`, want: `{"n":12345678901234567890}`},
		{in: "name=value", want: "name=value"},
		{in: `{"a":1} {"b":2}`, want: `{"a":1} {"b":2}`},
	}
	for _, tt := range tests {
		if got := CanonicalBody([]byte(tt.in)); got != tt.want {
			t.Errorf("CanonicalBody(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultSkipRule(t *testing.T) {
	tests := []struct {
		method string
		cc     string
		want   bool
	}{
		{method: http.MethodGet, want: false},
		{method: http.MethodPost, want: false},
		{method: http.MethodHead, want: false},
		{method: http.MethodPut, want: true},
		{method: "patch", want: true},
		{method: http.MethodDelete, want: true},
		{method: http.MethodGet, cc: "max-age=60", want: false},
		{method: http.MethodGet, cc: "private, no-store", want: true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
		req.Method = tt.method
		if tt.cc != "" {
			req.Header.Set("Cache-Control", tt.cc)
		}
		if got := DefaultSkipRule(req); got != tt.want {
			t.Errorf("DefaultSkipRule(%s, %q) = %v, want %v", tt.method, tt.cc, got, tt.want)
		}
	}
}
