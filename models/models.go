// ABOUTME: Shared API response types for callbridge
// ABOUTME: Defines the JSON error envelope and simple status acknowledgements

package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// StatusResponse acknowledges a request that has no richer result.
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
