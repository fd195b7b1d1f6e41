// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods, handlers, and guards

package handlers

import "net/http"

// Access selects which guard the server wraps around a route.
type Access int

const (
	// Public routes get no guard.
	Public Access = iota
	// Admin routes require the admin API key.
	Admin
	// Webhook routes are rate limited and signature checked, never admin-guarded.
	Webhook
)

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // chi pattern (e.g., "/api/memory/{phone_hash}")
	Handler http.HandlerFunc // Handler function
	Access  Access
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health
		{Method: http.MethodGet, Path: "/health", Handler: h.Health, Access: Public},

		// Admin: caller memory
		{Method: http.MethodPost, Path: "/api/memory/{phone_hash}", Handler: h.AddFact, Access: Admin},
		{Method: http.MethodGet, Path: "/api/memory/{phone_hash}", Handler: h.GetMemory, Access: Admin},

		// Admin: operator notes
		{Method: http.MethodPost, Path: "/api/notes", Handler: h.AddNote, Access: Admin},
		{Method: http.MethodGet, Path: "/api/notes", Handler: h.ListNotes, Access: Admin},

		// Voice platform webhooks
		{Method: http.MethodPost, Path: "/webhook/personalize", Handler: h.Personalize, Access: Webhook},
		{Method: http.MethodPost, Path: "/webhook/post-call", Handler: h.PostCall, Access: Webhook},
	}
}
