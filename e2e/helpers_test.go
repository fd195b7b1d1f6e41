// ABOUTME: Test helpers for e2e tests
// ABOUTME: Builds a fully wired bridge from environment variables

package e2e

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/quick"

	"github.com/markalston/callbridge/config"
	"github.com/markalston/callbridge/server"
	"github.com/markalston/callbridge/services"
)

var quickConfig = &quick.Config{MaxCount: 100}

// newBridge loads configuration from env (on top of test defaults) and
// returns the server's root handler. Every variable the bridge reads is
// set so the host environment cannot leak in.
//
// Example:
//
//	h := newBridge(t, map[string]string{"ADMIN_API_KEY": "secret"})
func newBridge(t *testing.T, env map[string]string) http.Handler {
	t.Helper()

	dir := t.TempDir()
	vars := map[string]string{
		"ENV_FILE":             filepath.Join(dir, "missing.env"),
		"PORT":                 "0",
		"ADMIN_API_KEY":        "",
		"ALLOWED_ORIGINS":      "",
		"WEBHOOK_SECRET":       "",
		"RATE_LIMIT_ENABLED":   "false",
		"STORE_BACKEND":        "file",
		"DATA_DIR":             filepath.Join(dir, "data"),
		"DATABASE_URL":         "",
		"MEMORY_CACHE_TTL":     "0",
		"MAX_FACTS_PER_CALLER": "50",
	}
	for k, v := range env {
		vars[k] = v
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	store, err := services.OpenStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return server.New(cfg, store).Handler()
}

// serve sends req straight to h. Going through the handler rather than a
// socket keeps header values byte-exact; net/http trims surrounding
// whitespace from header values it reads off the wire.
func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// adminRoute is an admin write endpoint with a valid body.
type adminRoute struct {
	name string
	path string
	body string
}

var adminRoutes = []adminRoute{
	{"memory", "/api/memory/abc123", `{"fact":"test fact"}`},
	{"notes", "/api/notes", `{"note":"test note"}`},
}

func (a adminRoute) request(authHeader string, set bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, a.path, strings.NewReader(a.body))
	req.Header.Set("Content-Type", "application/json")
	if set {
		req.Header.Set("Authorization", authHeader)
	}
	return req
}

const (
	tokenChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_.~"
	lower      = "abcdefghijklmnopqrstuvwxyz"
	hexChars   = "0123456789abcdef"
)

// textRunes mixes ASCII, accented Latin, CJK, emoji, quotes and control
// characters, NUL included.
var textRunes = []rune("abcXYZ 019 éüñßø 日本語통화 ☕🎉📞 \"'\\<>&\t\n\x00")

func randomString(r *rand.Rand, alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(b)
}

// adminWrite is a valid write for either admin endpoint: a key, a hex
// phone hash of 8 to 64 characters and free text.
type adminWrite struct {
	Key       string
	PhoneHash string
	Text      string
}

func (adminWrite) Generate(r *rand.Rand, _ int) reflect.Value {
	text := make([]rune, 1+r.Intn(80))
	for i := range text {
		text[i] = textRunes[r.Intn(len(textRunes))]
	}
	// Anchor one visible rune so the text never cleans to blank.
	text[r.Intn(len(text))] = []rune("aé日☕")[r.Intn(4)]

	return reflect.ValueOf(adminWrite{
		Key:       randomString(r, tokenChars, 1+r.Intn(48)),
		PhoneHash: randomString(r, hexChars, 8+r.Intn(57)),
		Text:      string(text),
	})
}

// requests returns an authorized POST for each admin write endpoint.
func (a adminWrite) requests(t *testing.T) []*http.Request {
	t.Helper()
	fact, err := json.Marshal(map[string]string{"fact": a.Text})
	if err != nil {
		t.Fatalf("marshal fact: %v", err)
	}
	note, err := json.Marshal(map[string]string{"note": a.Text})
	if err != nil {
		t.Fatalf("marshal note: %v", err)
	}

	routes := []adminRoute{
		{"memory", "/api/memory/" + a.PhoneHash, string(fact)},
		{"notes", "/api/notes", string(note)},
	}
	reqs := make([]*http.Request, len(routes))
	for i, route := range routes {
		reqs[i] = route.request("Bearer "+a.Key, true)
	}
	return reqs
}

// mismatch is a configured key and a header that does not carry it.
type mismatch struct {
	Key    string
	Header string
	Set    bool
}

func (mismatch) Generate(r *rand.Rand, _ int) reflect.Value {
	key := randomString(r, tokenChars, 1+r.Intn(48))
	m := mismatch{Key: key, Set: true}
	switch r.Intn(5) {
	case 0:
		m.Header = "Bearer " + randomString(r, tokenChars, 1+r.Intn(48))
		if m.Header == "Bearer "+key {
			m.Header += "x"
		}
	case 1:
		m.Header = "Basic " + key
	case 2:
		m.Set = false
	case 3:
		m.Header = key
	default:
		m.Header = "Token " + key
	}
	return reflect.ValueOf(m)
}

// originSet is an allow-list plus an origin that may or may not be on it.
type originSet struct {
	Allowed []string
	Origin  string
}

func randomOrigin(r *rand.Rand) string {
	scheme := "https"
	if r.Intn(2) == 0 {
		scheme = "http"
	}
	return scheme + "://" + randomString(r, lower, 1+r.Intn(12)) + "." + randomString(r, lower, 2+r.Intn(4))
}

func (originSet) Generate(r *rand.Rand, _ int) reflect.Value {
	n := 1 + r.Intn(4)
	allowed := make([]string, n)
	for i := range allowed {
		allowed[i] = randomOrigin(r)
	}
	origin := randomOrigin(r)
	if r.Intn(2) == 0 {
		origin = allowed[r.Intn(n)]
	}
	return reflect.ValueOf(originSet{Allowed: allowed, Origin: origin})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
