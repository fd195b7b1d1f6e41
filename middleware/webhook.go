// ABOUTME: Webhook signature middleware for voice-platform callbacks
// ABOUTME: Verifies the signed request body before handlers decode it

package middleware

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// MaxWebhookBody caps webhook and admin request bodies.
const MaxWebhookBody = 1 << 20

// BodyVerifier checks a signature header against a raw request body.
type BodyVerifier interface {
	Verify(header string, body []byte) error
}

// WebhookSignature returns middleware that rejects webhook requests whose
// signature header does not match the body. A nil verifier disables the
// check. The body is restored so the handler can decode it.
func WebhookSignature(verifier BodyVerifier, header string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if verifier == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxWebhookBody))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeJSONError(w, "Request body too large", http.StatusRequestEntityTooLarge)
					return
				}
				writeJSONError(w, "Unable to read request body", http.StatusBadRequest)
				return
			}

			if err := verifier.Verify(r.Header.Get(header), body); err != nil {
				slog.Warn("Webhook signature rejected", "path", sanitizePath(r.URL.Path), "error", err)
				writeJSONError(w, "Invalid webhook signature", http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next(w, r)
		}
	}
}
