// ABOUTME: Caller memory and operator note data types
// ABOUTME: Shared by the stores, the admin API, and the webhook handlers

package models

import "time"

// Fact sources.
const (
	FactSourceAdmin    = "admin"
	FactSourcePostCall = "post-call"
)

// Fact is a single remembered statement about a caller.
type Fact struct {
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// CallerMemory is everything remembered about one caller, keyed by the
// hash of their phone number. Facts are ordered oldest first.
type CallerMemory struct {
	PhoneHash   string     `json:"phone_hash"`
	Facts       []Fact     `json:"facts"`
	CallCount   int        `json:"call_count"`
	LastCallAt  *time.Time `json:"last_call_at,omitempty"`
	LastCallSID string     `json:"last_call_sid,omitempty"`
}

// Known reports whether anything has been recorded for the caller.
func (m CallerMemory) Known() bool {
	return len(m.Facts) > 0 || m.CallCount > 0
}

// Note is an operator note shared across all calls.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// CallRecord summarizes a completed call for RecordCall.
type CallRecord struct {
	CallSID string
	Summary string
	EndedAt time.Time
}

// AddFactRequest is the body of POST /api/memory/{phone_hash}.
type AddFactRequest struct {
	Fact string `json:"fact"`
}

// AddFactResponse acknowledges a stored fact.
type AddFactResponse struct {
	Status    string `json:"status"`
	PhoneHash string `json:"phone_hash"`
	FactCount int    `json:"fact_count"`
}

// AddNoteRequest is the body of POST /api/notes.
type AddNoteRequest struct {
	Note string `json:"note"`
}

// AddNoteResponse acknowledges a stored note.
type AddNoteResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// NotesResponse is returned by GET /api/notes.
type NotesResponse struct {
	Notes []Note `json:"notes"`
}
