// ABOUTME: Fixed-window rate limiting for the public webhook routes
// ABOUTME: Counts requests per client IP and answers 429 with Retry-After

package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// sweepEvery is how many new windows are opened between full sweeps of
// expired entries.
const sweepEvery = 100

// window tracks requests for one key within a fixed time window.
type window struct {
	count     int
	expiresAt time.Time
}

// RateLimiter enforces a maximum number of requests per time window.
// Each key gets an independent counter. Safe for concurrent use.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	opened  int
	now     func() time.Time
}

// NewRateLimiter creates a rate limiter that allows limit requests per period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records a request for key. It returns true when the request is
// within the limit, or false and the time until the window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]

	// The boundary instant opens a new window so a denial never carries
	// a zero retry delay.
	if !ok || !now.Before(w.expiresAt) {
		rl.windows[key] = &window{count: 1, expiresAt: now.Add(rl.period)}

		rl.opened++
		if rl.opened >= sweepEvery {
			rl.sweep(now)
			rl.opened = 0
		}
		return true, 0
	}

	if w.count < rl.limit {
		w.count++
		return true, 0
	}
	return false, w.expiresAt.Sub(now)
}

// sweep removes expired windows. Must be called while holding rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if !now.Before(w.expiresAt) {
			delete(rl.windows, k)
		}
	}
}

// ClientIP keys requests by the leftmost X-Forwarded-For address, falling
// back to RemoteAddr. This trusts X-Forwarded-For, which is only safe
// behind a reverse proxy that sets it.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		ip := strings.TrimSpace(first)
		if ip != "" && net.ParseIP(ip) != nil {
			return "ip:" + ip
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return "ip:" + host
}

// RateLimit returns middleware that enforces limiter per keyFunc(r).
// A nil limiter or keyFunc disables the middleware. Requests whose key
// is empty pass through.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if limiter == nil || keyFunc == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			allowed, retryAfter := limiter.Allow(key)
			if allowed {
				next(w, r)
				return
			}

			retrySeconds := int(math.Ceil(retryAfter.Seconds()))
			slog.Warn("Rate limit exceeded", "key", key, "path", sanitizePath(r.URL.Path), "retry_after", retrySeconds)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds))
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":       "Rate limit exceeded",
				"code":        http.StatusTooManyRequests,
				"retry_after": retrySeconds,
			})
		}
	}
}
