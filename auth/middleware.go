package auth

import (
	"errors"
	"net/http"

	"github.com/jonwraymond/respcache/observe"
)

// RequireJWT rejects requests without a valid bearer token (401) or, when
// role is non-empty, without that role (403). The identity is attached to
// the request context.
func RequireJWT(authn *JWTAuthenticator, role string, logger observe.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authn.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn(r.Context(), "admin request rejected",
					observe.F("path", r.URL.Path),
					observe.F("error", err),
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="respcache"`)
				http.Error(w, publicMessage(err), http.StatusUnauthorized)
				return
			}
			if role != "" && !id.HasRole(role) {
				logger.Warn(r.Context(), "admin request forbidden",
					observe.F("path", r.URL.Path),
					observe.F("principal", id.Principal),
				)
				http.Error(w, ErrForbidden.Error(), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func publicMessage(err error) string {
	for _, known := range []error{ErrMissingCredentials, ErrTokenExpired, ErrTokenMalformed} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return ErrInvalidCredentials.Error()
}
