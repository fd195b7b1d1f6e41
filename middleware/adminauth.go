// ABOUTME: Admin API key guard for operator routes
// ABOUTME: Evaluates bearer credentials into a tri-state decision mapped to 200/401/403

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// AuthDecision is the outcome of evaluating an admin request.
type AuthDecision int

const (
	// DecisionAllowed lets the request reach the handler.
	DecisionAllowed AuthDecision = iota
	// DecisionInvalidCredential rejects a missing, malformed, or wrong credential.
	DecisionInvalidCredential
	// DecisionUnconfigured rejects every request because no admin key is set.
	DecisionUnconfigured
)

func (d AuthDecision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionInvalidCredential:
		return "invalid_credential"
	case DecisionUnconfigured:
		return "unconfigured"
	default:
		return "unknown"
	}
}

// StatusCode maps a decision to its HTTP status. Allowed maps to 200;
// the handler decides the real success status.
func (d AuthDecision) StatusCode() int {
	switch d {
	case DecisionAllowed:
		return http.StatusOK
	case DecisionUnconfigured:
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}

// EvaluateAdminAuth decides whether header authorizes an admin request
// against configuredKey. An empty header means the header was absent.
//
// An empty configuredKey disables admin access regardless of the header.
// Otherwise the header must be "<scheme> <credential>" where scheme equals
// "bearer" case-insensitively and credential, taken verbatim after the
// first space, equals configuredKey byte for byte.
func EvaluateAdminAuth(configuredKey, header string) AuthDecision {
	if configuredKey == "" {
		return DecisionUnconfigured
	}
	if header == "" {
		return DecisionInvalidCredential
	}

	scheme, credential, found := strings.Cut(header, " ")
	if !found {
		return DecisionInvalidCredential
	}
	if !strings.EqualFold(scheme, "bearer") {
		return DecisionInvalidCredential
	}
	if subtle.ConstantTimeCompare([]byte(credential), []byte(configuredKey)) != 1 {
		return DecisionInvalidCredential
	}
	return DecisionAllowed
}

// AdminAuth returns middleware that guards operator routes with the
// configured admin key. Rejections carry a generic body; the status code
// is the only signal of why a request was refused.
func AdminAuth(configuredKey string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			decision := EvaluateAdminAuth(configuredKey, r.Header.Get("Authorization"))

			switch decision {
			case DecisionAllowed:
				next(w, r)
			case DecisionUnconfigured:
				slog.Debug("Admin request rejected", "path", sanitizePath(r.URL.Path), "decision", decision)
				writeJSONError(w, "Admin API is not enabled", decision.StatusCode())
			default:
				slog.Debug("Admin request rejected", "path", sanitizePath(r.URL.Path), "decision", decision)
				w.Header().Set("WWW-Authenticate", `Bearer realm="callbridge-admin"`)
				writeJSONError(w, "Unauthorized", decision.StatusCode())
			}
		}
	}
}
