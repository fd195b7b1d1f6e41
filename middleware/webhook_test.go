// ABOUTME: Tests for webhook signature middleware
// ABOUTME: Verifies bypass when disabled, rejection, and body restoration

package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubVerifier struct {
	err     error
	gotSig  string
	gotBody string
}

func (s *stubVerifier) Verify(header string, body []byte) error {
	s.gotSig = header
	s.gotBody = string(body)
	return s.err
}

func TestWebhookSignature_NilVerifierPassesThrough(t *testing.T) {
	called := false
	handler := WebhookSignature(nil, "X-Signature")(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook/personalize", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if !called {
		t.Error("Handler should be called when verification is disabled")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestWebhookSignature_ValidRestoresBody(t *testing.T) {
	verifier := &stubVerifier{}
	var handlerBody string
	handler := WebhookSignature(verifier, "X-Signature")(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		handlerBody = string(b)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook/post-call", strings.NewReader(`{"call_sid":"CA123"}`))
	req.Header.Set("X-Signature", "t=1,v0=aa")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if verifier.gotSig != "t=1,v0=aa" {
		t.Errorf("verifier header = %q, want %q", verifier.gotSig, "t=1,v0=aa")
	}
	if handlerBody != `{"call_sid":"CA123"}` {
		t.Errorf("handler body = %q, want original body", handlerBody)
	}
	if verifier.gotBody != handlerBody {
		t.Errorf("verifier saw %q, handler saw %q", verifier.gotBody, handlerBody)
	}
}

func TestWebhookSignature_InvalidReturns401(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("bad signature")}
	handler := WebhookSignature(verifier, "X-Signature")(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called for invalid signature")
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook/post-call", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if strings.Contains(rec.Body.String(), "bad signature") {
		t.Error("response body should not leak the verification error")
	}
}

func TestWebhookSignature_BodyTooLarge(t *testing.T) {
	handler := WebhookSignature(&stubVerifier{}, "X-Signature")(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called for oversized body")
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook/post-call", strings.NewReader(strings.Repeat("a", MaxWebhookBody+1)))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}
