// ABOUTME: Admin endpoints for operator notes
// ABOUTME: Notes are shared with every caller through personalization

package handlers

import (
	"net/http"

	"github.com/markalston/callbridge/models"
)

func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req models.AddNoteRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	note, err := h.store.AddNote(r.Context(), req.Note)
	if err != nil {
		h.writeStoreError(w, err, "add_note")
		return
	}
	h.writeJSON(w, http.StatusOK, models.AddNoteResponse{Status: "ok", ID: note.ID})
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.ListNotes(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "list_notes")
		return
	}
	h.writeJSON(w, http.StatusOK, models.NotesResponse{Notes: notes})
}
