// ABOUTME: Tests for request logging middleware
// ABOUTME: Verifies path sanitization and request ID propagation

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestSanitizePath_RemovesNewlines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "path with newline injection",
			input: "/api/notes\nAdmin access granted for user attacker",
			want:  "/api/notesAdmin access granted for user attacker",
		},
		{
			name:  "path with carriage return",
			input: "/api/test\rmalicious",
			want:  "/api/testmalicious",
		},
		{
			name:  "path with CRLF",
			input: "/api/test\r\ninjected line",
			want:  "/api/testinjected line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizePath(tt.input)
			if got != tt.want {
				t.Errorf("sanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePath_RemovesControlCharacters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "path with tab",
			input: "/api/test\tvalue",
			want:  "/api/testvalue",
		},
		{
			name:  "path with null byte",
			input: "/api/test\x00value",
			want:  "/api/testvalue",
		},
		{
			name:  "path with bell character",
			input: "/api/test\x07value",
			want:  "/api/testvalue",
		},
		{
			name:  "path with escape sequence",
			input: "/api/test\x1b[31mred\x1b[0m",
			want:  "/api/test[31mred[0m",
		},
		{
			name:  "path with DEL character",
			input: "/api/test\x7fvalue",
			want:  "/api/testvalue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizePath(tt.input)
			if got != tt.want {
				t.Errorf("sanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePath_PreservesValidCharacters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "normal path",
			input: "/api/memory/abc123",
			want:  "/api/memory/abc123",
		},
		{
			name:  "path with query string chars",
			input: "/api/notes?limit=10&offset=0",
			want:  "/api/notes?limit=10&offset=0",
		},
		{
			name:  "path with URL encoded chars",
			input: "/api/memory/abc%2Ftest",
			want:  "/api/memory/abc%2Ftest",
		},
		{
			name:  "path with hyphens and underscores",
			input: "/webhook/post-call/call_01",
			want:  "/webhook/post-call/call_01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizePath(tt.input)
			if got != tt.want {
				t.Errorf("sanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogRequest_SetsRequestIDHeader(t *testing.T) {
	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	requestID := rec.Header().Get("X-Request-ID")
	if requestID == "" {
		t.Error("X-Request-ID header should be set")
	}
	if len(requestID) != 16 { // 8 bytes = 16 hex chars
		t.Errorf("X-Request-ID length = %d, want 16", len(requestID))
	}
}

func TestLogRequest_CapturesStatusCode(t *testing.T) {
	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestLogRequest_ReusesChiRequestID(t *testing.T) {
	var seen string
	handler := chimw.RequestID(http.HandlerFunc(LogRequest(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(chimw.RequestIDHeader, "upstream-id-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "upstream-id-42" {
		t.Errorf("request ID in context = %q, want %q", seen, "upstream-id-42")
	}
	if got := rec.Header().Get("X-Request-ID"); got != "upstream-id-42" {
		t.Errorf("X-Request-ID = %q, want %q", got, "upstream-id-42")
	}
}

func TestLogRequest_FirstStatusWins(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusUnauthorized)
	rw.WriteHeader(http.StatusOK)

	if rw.statusCode != http.StatusUnauthorized {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusUnauthorized)
	}
}
