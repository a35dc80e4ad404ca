package httpserver

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/filedrop/internal/core/domain"
	"github.com/yndnr/filedrop/internal/server/httpserver/handler"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterPruneEvery = time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterRegistry hands out one token bucket per client address and
// forgets addresses that have been idle for a while.
type LimiterRegistry struct {
	mu        sync.RWMutex
	limiters  map[string]*ipLimiter
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastPrune time.Time
}

// NewLimiterRegistry creates a registry allowing rps requests per second
// with the given burst per address. A burst below 1 is raised to
// ceil(rps).
func NewLimiterRegistry(rps float64, burst int) *LimiterRegistry {
	if burst < 1 {
		burst = int(math.Max(1, math.Ceil(rps)))
	}
	return &LimiterRegistry{
		limiters:  make(map[string]*ipLimiter),
		limit:     rate.Limit(rps),
		burst:     burst,
		now:       time.Now,
		lastPrune: time.Now(),
	}
}

// GetOrCreate returns the limiter for key, creating it on first use.
func (r *LimiterRegistry) GetOrCreate(key string) *rate.Limiter {
	now := r.now()

	r.mu.RLock()
	l, ok := r.limiters[key]
	r.mu.RUnlock()
	if ok {
		r.mu.Lock()
		l.lastSeen = now
		r.mu.Unlock()
		return l.limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if l, ok = r.limiters[key]; ok {
		l.lastSeen = now
		return l.limiter
	}

	if now.Sub(r.lastPrune) >= limiterPruneEvery {
		r.pruneLocked(now)
	}

	l = &ipLimiter{limiter: rate.NewLimiter(r.limit, r.burst), lastSeen: now}
	r.limiters[key] = l
	return l.limiter
}

// Allow reports whether a request from key may proceed now.
func (r *LimiterRegistry) Allow(key string) bool {
	return r.GetOrCreate(key).AllowN(r.now(), 1)
}

// Len returns the number of tracked addresses.
func (r *LimiterRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.limiters)
}

func (r *LimiterRegistry) pruneLocked(now time.Time) {
	for key, l := range r.limiters {
		if now.Sub(l.lastSeen) > limiterIdleTTL {
			delete(r.limiters, key)
		}
	}
	r.lastPrune = now
}

// RateLimit rejects requests beyond the per-address budget with 429.
// Forwarding headers pick the address only when trustProxy is set.
func RateLimit(reg *LimiterRegistry, trustProxy bool) Middleware {
	retryAfter := "1"
	if reg.limit > 0 && reg.limit < 1 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / float64(reg.limit))))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !reg.Allow(handler.ClientIP(r, trustProxy)) {
				w.Header().Set("Retry-After", retryAfter)
				handler.WriteError(w, r, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
