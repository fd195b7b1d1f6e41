// ABOUTME: Voice-platform webhook endpoints
// ABOUTME: Personalizes calls at start and records them when they end

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/markalston/callbridge/models"
	"github.com/markalston/callbridge/services"
)

// Personalize answers the conversation-initiation webhook with the
// caller's memory and the latest operator notes. Unknown or withheld
// callers get caller_known=false.
func (h *Handler) Personalize(w http.ResponseWriter, r *http.Request) {
	var req models.PersonalizeRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	mem := models.CallerMemory{Facts: []models.Fact{}}
	if phoneHash := services.HashPhone(req.CallerID); phoneHash != "" {
		var err error
		mem, err = h.store.GetMemory(r.Context(), phoneHash)
		if err != nil {
			h.writeStoreError(w, err, "personalize_memory")
			return
		}
	}

	notes, err := h.store.ListNotes(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "personalize_notes")
		return
	}

	slog.Debug("Personalizing call", "call_sid", req.CallSID, "agent_id", req.AgentID, "caller_known", mem.Known())
	h.writeJSON(w, http.StatusOK, services.BuildPersonalization(mem, notes))
}

// PostCall records a finished call against the caller's memory.
func (h *Handler) PostCall(w http.ResponseWriter, r *http.Request) {
	var req models.PostCallRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	phoneHash := services.HashPhone(req.CallerID)
	if phoneHash == "" {
		slog.Info("Post-call report without caller ID ignored", "call_sid", req.CallSID)
		h.writeJSON(w, http.StatusOK, models.StatusResponse{Status: "ignored"})
		return
	}

	mem, err := h.store.RecordCall(r.Context(), phoneHash, models.CallRecord{
		CallSID: req.CallSID,
		Summary: req.Summary,
		EndedAt: time.Now(),
	})
	if err != nil {
		h.writeStoreError(w, err, "record_call")
		return
	}

	slog.Info("Call recorded", "call_sid", req.CallSID, "call_count", mem.CallCount)
	h.writeJSON(w, http.StatusOK, models.StatusResponse{Status: "ok"})
}
