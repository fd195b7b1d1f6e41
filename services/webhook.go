// ABOUTME: Webhook signature verification for voice-platform callbacks
// ABOUTME: Checks timestamped HMAC-SHA256 signatures within a replay tolerance

package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries "t=<unix seconds>,v0=<hex hmac>".
const SignatureHeader = "ElevenLabs-Signature"

var (
	ErrMissingSignature   = errors.New("missing webhook signature")
	ErrMalformedSignature = errors.New("malformed webhook signature")
	ErrSignatureExpired   = errors.New("webhook signature outside tolerance")
	ErrSignatureMismatch  = errors.New("webhook signature mismatch")
)

// SignatureVerifier validates webhook bodies against a shared secret.
type SignatureVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewSignatureVerifier returns a verifier for secret, or nil when secret is
// empty (verification disabled). A zero tolerance skips the age check.
func NewSignatureVerifier(secret string, tolerance time.Duration) *SignatureVerifier {
	if secret == "" {
		return nil
	}
	return &SignatureVerifier{
		secret:    []byte(secret),
		tolerance: tolerance,
		now:       time.Now,
	}
}

// Verify checks header against body. The signed payload is "<t>.<body>".
func (v *SignatureVerifier) Verify(header string, body []byte) error {
	if header == "" {
		return ErrMissingSignature
	}

	var (
		timestamp  string
		signatures []string
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrMalformedSignature
		}
		switch key {
		case "t":
			timestamp = value
		case "v0":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ErrMalformedSignature
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: timestamp %q", ErrMalformedSignature, timestamp)
	}
	if v.tolerance > 0 {
		age := v.now().Sub(time.Unix(unix, 0))
		if age > v.tolerance || age < -v.tolerance {
			return ErrSignatureExpired
		}
	}

	expected := v.mac(timestamp, body)
	for _, sig := range signatures {
		got, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return nil
		}
	}
	return ErrSignatureMismatch
}

// Sign produces a header value for body at ts.
func (v *SignatureVerifier) Sign(body []byte, ts time.Time) string {
	timestamp := strconv.FormatInt(ts.Unix(), 10)
	return "t=" + timestamp + ",v0=" + hex.EncodeToString(v.mac(timestamp, body))
}

func (v *SignatureVerifier) mac(timestamp string, body []byte) []byte {
	h := hmac.New(sha256.New, v.secret)
	h.Write([]byte(timestamp))
	h.Write([]byte("."))
	h.Write(body)
	return h.Sum(nil)
}
