package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"mockinterview/api/internal/utils"
)

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per key (session id, falling back
// to the client address).
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*keyedLimiter
	every  time.Duration
	burst  int
	now    func() time.Time
}

// NewRateLimiter allows perMinute requests per key with an equal burst.
// perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		limits: make(map[string]*keyedLimiter),
		burst:  perMinute,
		now:    time.Now,
	}
	if perMinute > 0 {
		rl.every = time.Minute / time.Duration(perMinute)
	}
	return rl
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limits[key]; ok {
		l.lastSeen = rl.now()
		return l.limiter
	}

	l := &keyedLimiter{
		limiter:  rate.NewLimiter(rate.Every(rl.every), rl.burst),
		lastSeen: rl.now(),
	}
	rl.limits[key] = l
	return l.limiter
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl.burst <= 0 {
		return true
	}
	return rl.getLimiter(key).Allow()
}

// Prune drops limiters idle since before cutoff and returns how many went.
func (rl *RateLimiter) Prune(cutoff time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	n := 0
	for key, l := range rl.limits {
		if l.lastSeen.Before(cutoff) {
			delete(rl.limits, key)
			n++
		}
	}
	return n
}

// Limit rejects requests over the per-key budget with 429.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(limitKey(r)) {
			w.Header().Set("Retry-After", "60")
			utils.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitKey(r *http.Request) string {
	if id := chi.URLParam(r, "session_id"); id != "" {
		return "session:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}
