// ABOUTME: Admin endpoints for per-caller memory
// ABOUTME: Adds facts to and reads memory for a phone hash

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markalston/callbridge/models"
	"github.com/markalston/callbridge/services"
)

// AddFact stores a fact for the caller named in the path.
func (h *Handler) AddFact(w http.ResponseWriter, r *http.Request) {
	phoneHash := chi.URLParam(r, "phone_hash")
	if !services.ValidPhoneHash(phoneHash) {
		h.writeError(w, "Invalid phone hash", http.StatusBadRequest)
		return
	}

	var req models.AddFactRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	mem, err := h.store.AddFact(r.Context(), phoneHash, req.Fact, models.FactSourceAdmin)
	if err != nil {
		h.writeStoreError(w, err, "add_fact")
		return
	}

	h.writeJSON(w, http.StatusOK, models.AddFactResponse{
		Status:    "ok",
		PhoneHash: phoneHash,
		FactCount: len(mem.Facts),
	})
}

// GetMemory returns everything stored for the caller named in the path.
func (h *Handler) GetMemory(w http.ResponseWriter, r *http.Request) {
	phoneHash := chi.URLParam(r, "phone_hash")
	if !services.ValidPhoneHash(phoneHash) {
		h.writeError(w, "Invalid phone hash", http.StatusBadRequest)
		return
	}

	mem, err := h.store.GetMemory(r.Context(), phoneHash)
	if err != nil {
		h.writeStoreError(w, err, "get_memory")
		return
	}
	h.writeJSON(w, http.StatusOK, mem)
}
