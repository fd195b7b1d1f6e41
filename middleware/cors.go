// ABOUTME: CORS middleware driven by an exact-match origin allow-list
// ABOUTME: Reflects allowed origins and answers their preflight requests

package middleware

import (
	"net/http"
	"slices"
)

const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type"
	corsMaxAge       = "600"
)

// AllowedOrigin returns the Access-Control-Allow-Origin value for origin,
// or false when no header should be sent. Matching is literal membership:
// no wildcard, no case folding, no trailing-slash or port normalization.
func AllowedOrigin(allowed []string, origin string) (string, bool) {
	if len(allowed) == 0 || origin == "" {
		return "", false
	}
	if !slices.Contains(allowed, origin) {
		return "", false
	}
	return origin, true
}

// IsPreflight reports whether r is a CORS preflight request.
func IsPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// CORSWithConfig returns middleware that grants cross-origin access to the
// given origins. With an empty list the middleware is a pass-through and
// never touches response headers.
//
// Preflight requests from an allowed origin are answered with 204 without
// calling the wrapped handler. Preflights from any other origin fall
// through unchanged.
func CORSWithConfig(allowedOrigins []string) Middleware {
	if len(allowedOrigins) == 0 {
		return func(next http.HandlerFunc) http.HandlerFunc {
			return next
		}
	}

	allowed := slices.Clone(allowedOrigins)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")

			origin, ok := AllowedOrigin(allowed, r.Header.Get("Origin"))
			if !ok {
				next(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if IsPreflight(r) {
				headers := r.Header.Get("Access-Control-Request-Headers")
				if headers == "" {
					headers = corsAllowHeaders
				}
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", corsMaxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next(w, r)
		}
	}
}
