// ABOUTME: HTTP handlers for the callbridge admin API and voice webhooks
// ABOUTME: Shared handler state plus JSON request and response helpers

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/markalston/callbridge/config"
	"github.com/markalston/callbridge/middleware"
	"github.com/markalston/callbridge/models"
	"github.com/markalston/callbridge/services"
)

type Handler struct {
	cfg   *config.Config
	store services.MemoryStore
}

// NewHandler creates a handler set backed by store. cfg may be nil in
// tests that only inspect the route table.
func NewHandler(cfg *config.Config, store services.MemoryStore) *Handler {
	return &Handler{
		cfg:   cfg,
		store: store,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeJSON reads a JSON body of at most middleware.MaxWebhookBody bytes
// into v. On failure it writes the error response and returns false.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, middleware.MaxWebhookBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeStoreError maps store errors to responses. Validation failures
// become 400; anything else is logged and reported as a generic 500.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, services.ErrInvalidPhoneHash):
		h.writeError(w, "Invalid phone hash", http.StatusBadRequest)
	case errors.Is(err, services.ErrEmptyText):
		h.writeError(w, "Text must not be empty", http.StatusBadRequest)
	default:
		slog.Error("Store operation failed", "action", action, "error", err)
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}
