package httpcache

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/respcache/cache"
	"github.com/jonwraymond/respcache/observe"
)

// CacheStatusHeader reports HIT or MISS on every response the middleware handles.
const CacheStatusHeader = "X-Cache"

// DefaultMaxBodyBytes caps how much of a request body is read for keying.
// Larger requests pass through uncached.
const DefaultMaxBodyBytes = 1 << 20

// UnsafeMethods are never cached by DefaultSkipRule.
var UnsafeMethods = []string{http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodConnect}

// SkipRule reports whether a request must bypass the cache.
type SkipRule func(r *http.Request) bool

// DefaultSkipRule bypasses unsafe methods and requests carrying
// Cache-Control: no-store or no-cache.
func DefaultSkipRule(r *http.Request) bool {
	if isUnsafeMethod(r.Method) {
		return true
	}
	for _, v := range r.Header.Values("Cache-Control") {
		for _, directive := range strings.Split(v, ",") {
			switch strings.ToLower(strings.TrimSpace(directive)) {
			case "no-store", "no-cache":
				return true
			}
		}
	}
	return false
}

// Middleware serves cached responses in front of an http.Handler.
type Middleware struct {
	backend  cache.Backend
	keyer    cache.Keyer
	skipRule SkipRule
	setOpts  []cache.SetOption
	maxBody  int64
	logger   observe.Logger
	group    singleflight.Group
}

// Option configures a Middleware.
type Option func(*Middleware)

// WithKeyer replaces DeriveKey as the request keyer.
func WithKeyer(k cache.Keyer) Option {
	return func(m *Middleware) { m.keyer = k }
}

// WithSkipRule replaces DefaultSkipRule.
func WithSkipRule(rule SkipRule) Option {
	return func(m *Middleware) { m.skipRule = rule }
}

// WithExpirations sets the expirations applied to stored responses.
// Zero values defer to the backend's configured defaults.
func WithExpirations(absolute, sliding time.Duration) Option {
	return func(m *Middleware) {
		m.setOpts = []cache.SetOption{
			cache.WithAbsoluteExpiration(absolute),
			cache.WithSlidingExpiration(sliding),
		}
	}
}

// WithMaxBodyBytes changes DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(m *Middleware) {
		if n > 0 {
			m.maxBody = n
		}
	}
}

// WithLogger logs requests that could not be keyed.
func WithLogger(l observe.Logger) Option {
	return func(m *Middleware) { m.logger = l }
}

// New creates a Middleware over backend.
func New(backend cache.Backend, opts ...Option) *Middleware {
	m := &Middleware{
		backend:  backend,
		keyer:    cache.NewDefaultKeyer(),
		skipRule: DefaultSkipRule,
		maxBody:  DefaultMaxBodyBytes,
		logger:   observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handler wraps next. With a disabled backend next is returned unchanged.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	if m.backend == nil || m.backend.Kind() == cache.KindDisabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.serve(w, r, next)
	})
}

func (m *Middleware) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if m.skipRule(r) {
		next.ServeHTTP(w, r)
		return
	}

	key, err := m.requestKey(r)
	if err != nil || key == "" {
		if err != nil && !errors.Is(err, errBodyTooLarge) {
			m.logger.Warn(r.Context(), "request not cacheable", observe.F("error", err))
		}
		next.ServeHTTP(w, r)
		return
	}

	ctx := r.Context()
	var cached Response
	if m.backend.Get(ctx, key, &cached) && cached.StatusCode != 0 {
		cached.writeTo(w, "HIT")
		return
	}

	leader := false
	v, _, _ := m.group.Do(key, func() (any, error) {
		leader = true
		rec := newRecorder()
		next.ServeHTTP(rec, r)
		resp := rec.response()
		if resp.Cacheable() {
			m.backend.Set(ctx, key, *resp.stored(), m.setOpts...)
		}
		return resp, nil
	})
	resp := v.(*Response)
	if !leader {
		// Callers that joined another request's flight never see its cookies.
		resp = resp.stored()
	}
	resp.writeTo(w, "MISS")
}

// RequestKey returns the cache key for r, or "" when r cannot be keyed.
// The request body stays readable.
func (m *Middleware) RequestKey(r *http.Request) string {
	key, _ := m.requestKey(r)
	return key
}

func (m *Middleware) requestKey(r *http.Request) (string, error) {
	body, err := readBody(r, m.maxBody)
	if err != nil {
		return "", err
	}
	return m.keyer.Key(r.Method, AbsoluteURL(r), CanonicalBody(body)), nil
}
