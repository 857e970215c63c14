package httpcache

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonwraymond/respcache/cache"
	"github.com/jonwraymond/respcache/observe"
	"github.com/jonwraymond/respcache/resilience"
)

// PurgeHandler exposes RemoveByPattern over HTTP:
//
//	DELETE /?pattern=users&application=billing
//
// The handler answers 202 once removal has been issued. Backend failures
// are logged by the backend and never reach the caller.
type PurgeHandler struct {
	backend cache.Backend
	limiter *resilience.RateLimiter
	logger  observe.Logger
}

// PurgeOption configures a PurgeHandler.
type PurgeOption func(*PurgeHandler)

// WithPurgeLimiter rejects purges with 429 once limiter runs dry.
func WithPurgeLimiter(limiter *resilience.RateLimiter) PurgeOption {
	return func(h *PurgeHandler) { h.limiter = limiter }
}

// WithPurgeLogger sets the logger used for accepted purges.
func WithPurgeLogger(l observe.Logger) PurgeOption {
	return func(h *PurgeHandler) { h.logger = l }
}

// NewPurgeHandler creates a PurgeHandler over backend.
func NewPurgeHandler(backend cache.Backend, opts ...PurgeOption) *PurgeHandler {
	h := &PurgeHandler{backend: backend, logger: observe.NopLogger()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type purgeResponse struct {
	ID          string `json:"id,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	Application string `json:"application,omitempty"`
	Backend     string `json:"backend,omitempty"`
	Status      string `json:"status,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (h *PurgeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", http.MethodDelete)
		writeJSON(w, http.StatusMethodNotAllowed, purgeResponse{Error: "method not allowed"})
		return
	}

	q := r.URL.Query()
	pattern := strings.TrimSpace(q.Get("pattern"))
	if pattern == "" {
		writeJSON(w, http.StatusBadRequest, purgeResponse{Error: "pattern is required"})
		return
	}
	application := strings.TrimSpace(q.Get("application"))

	if h.limiter != nil && !h.limiter.Allow() {
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusTooManyRequests, purgeResponse{Error: resilience.ErrRateLimitExceeded.Error()})
		return
	}

	var opts []cache.KeyOption
	if application != "" {
		opts = append(opts, cache.WithApplication(application))
	}
	id := uuid.NewString()
	h.backend.RemoveByPattern(r.Context(), pattern, opts...)

	h.logger.Info(r.Context(), "cache purge accepted",
		observe.F("purge_id", id),
		observe.F("pattern", pattern),
		observe.F("application", application),
		observe.F("backend", string(h.backend.Kind())),
	)
	writeJSON(w, http.StatusAccepted, purgeResponse{
		ID:          id,
		Pattern:     pattern,
		Application: application,
		Backend:     string(h.backend.Kind()),
		Status:      "accepted",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
