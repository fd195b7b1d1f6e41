// ABOUTME: testing/quick generators shared by middleware property tests
// ABOUTME: Produces admin keys, authorization headers, and origin allow-lists

package middleware

import (
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing/quick"
)

const (
	lowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"
	lower      = "abcdefghijklmnopqrstuvwxyz"
)

var quickConfig = &quick.Config{MaxCount: 100}

// adminKey is a non-empty printable ASCII key without spaces.
type adminKey string

func (adminKey) Generate(r *rand.Rand, _ int) reflect.Value {
	return reflect.ValueOf(adminKey(randomToken(r, 1+r.Intn(64))))
}

// randomToken returns n printable ASCII bytes in '!'..'~'.
func randomToken(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('!' + r.Intn('~'-'!'+1))
	}
	return string(b)
}

// randomPrintable returns n printable ASCII bytes including space.
func randomPrintable(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(' ' + r.Intn('~'-' '+1))
	}
	return string(b)
}

// anyHeader is an arbitrary Authorization header value, possibly absent.
type anyHeader string

func (anyHeader) Generate(r *rand.Rand, _ int) reflect.Value {
	var h string
	switch r.Intn(4) {
	case 0:
		h = ""
	case 1:
		h = "Bearer " + randomToken(r, 1+r.Intn(64))
	case 2:
		h = "Bearer "
	default:
		h = randomPrintable(r, 1+r.Intn(100))
	}
	return reflect.ValueOf(anyHeader(h))
}

// authCase pairs a configured key with a header that must not match it.
type authCase struct {
	Key    string
	Header string
}

func (authCase) Generate(r *rand.Rand, _ int) reflect.Value {
	key := randomToken(r, 1+r.Intn(64))
	var header string
	for {
		switch r.Intn(6) {
		case 0: // wrong token
			header = "Bearer " + randomToken(r, 1+r.Intn(64))
		case 1: // wrong scheme
			header = "Basic " + key
		case 2: // missing
			header = ""
		case 3: // empty bearer
			header = "Bearer "
		case 4: // scheme only
			header = "Bearer"
		default: // garbage
			header = randomPrintable(r, 1+r.Intn(100))
		}
		scheme, cred, found := strings.Cut(header, " ")
		if !(found && strings.EqualFold(scheme, "bearer") && cred == key) {
			break
		}
	}
	return reflect.ValueOf(authCase{Key: key, Header: header})
}

func randomOrigin(r *rand.Rand) string {
	scheme := "http"
	if r.Intn(2) == 0 {
		scheme = "https"
	}

	host := make([]byte, 0, 32)
	host = append(host, lower[r.Intn(len(lower))])
	for i := r.Intn(21); i > 0; i-- {
		host = append(host, (lowerAlnum + "-")[r.Intn(len(lowerAlnum)+1)])
	}
	host = append(host, '.')
	for i := 2 + r.Intn(5); i > 0; i-- {
		host = append(host, lower[r.Intn(len(lower))])
	}

	port := ""
	if r.Intn(2) == 0 {
		port = ":" + strconv.Itoa(1+r.Intn(65535))
	}
	return scheme + "://" + string(host) + port
}

// corsCase is a non-empty allow-list and a request origin that is a
// member about half of the time.
type corsCase struct {
	Allowed []string
	Origin  string
}

func (corsCase) Generate(r *rand.Rand, _ int) reflect.Value {
	n := 1 + r.Intn(5)
	seen := make(map[string]bool, n)
	allowed := make([]string, 0, n)
	for len(allowed) < n {
		o := randomOrigin(r)
		if !seen[o] {
			seen[o] = true
			allowed = append(allowed, o)
		}
	}

	origin := randomOrigin(r)
	if r.Intn(2) == 0 {
		origin = allowed[r.Intn(len(allowed))]
	}
	return reflect.ValueOf(corsCase{Allowed: allowed, Origin: origin})
}

// requestOrigin is a single generated origin.
type requestOrigin string

func (requestOrigin) Generate(r *rand.Rand, _ int) reflect.Value {
	return reflect.ValueOf(requestOrigin(randomOrigin(r)))
}
