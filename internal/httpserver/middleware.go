// internal/httpserver/middleware.go
//
// Cross-cutting HTTP middleware.
// Responsibilities:
//   - Default JSON Content-Type and credentialed CORS for one origin.
//   - Per-client-IP token buckets (x/time/rate) on the key and guess routes,
//     with idle buckets dropped by the server's sweep.

package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// limiter hands out one token bucket per client IP. Buckets idle past the
// sweep cutoff are dropped.
type limiter struct {
	mu    sync.Mutex
	rps   int
	burst int
	now   func() time.Time
	byKey map[string]*bucket
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLimiter(rps, burst int, now func() time.Time) *limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	if now == nil {
		now = time.Now
	}
	return &limiter{rps: rps, burst: burst, now: now, byKey: make(map[string]*bucket)}
}

func (l *limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.byKey[key]; ok {
		b.seen = l.now()
		return b.lim
	}
	if key == "" {
		log.Warn().Msg("rate limiter key is empty")
	}
	b := &bucket{
		lim:  rate.NewLimiter(rate.Every(time.Second/time.Duration(l.rps)), l.burst),
		seen: l.now(),
	}
	l.byKey[key] = b
	return b.lim
}

// sweep drops buckets not used since cutoff and returns how many went.
func (l *limiter) sweep(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, b := range l.byKey {
		if b.seen.Before(cutoff) {
			delete(l.byKey, key)
			n++
		}
	}
	return n
}

// middleware rejects requests over the client's budget with 429.
func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.get(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port chi's RealIP leaves on direct connections.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
