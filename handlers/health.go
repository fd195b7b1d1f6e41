// ABOUTME: Liveness endpoint
// ABOUTME: Always public, never touches the store

package handlers

import (
	"net/http"

	"github.com/markalston/callbridge/models"
)

// Health reports that the process is serving requests.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}
