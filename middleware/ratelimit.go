// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/proposal-desk/identity"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP. Buckets are keyed by
// identity.ClientKey, never by the raw address.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	salt     string
	now      func() time.Time
}

// NewIPRateLimiter returns nil when rps is not positive, which disables
// limiting in RateLimit.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		salt:     identity.NewSalt(),
		now:      time.Now,
	}
}

// Key is the name ip's bucket is stored and logged under.
func (rl *IPRateLimiter) Key(ip string) string {
	return identity.ClientKey(ip, rl.salt)
}

// Allow takes a token from ip's bucket.
func (rl *IPRateLimiter) Allow(ip string) bool {
	key := rl.Key(ip)

	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	now := rl.now()
	v.lastSeen = now
	rl.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Prune forgets clients not seen for idle. It returns how many were removed.
func (rl *IPRateLimiter) Prune(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	removed := 0
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

// Len is the number of clients currently tracked
func (rl *IPRateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// RunJanitor prunes idle clients every interval until ctx is done.
func (rl *IPRateLimiter) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Prune(idle); n > 0 {
				slog.Debug("pruned idle rate limit entries", "count", n)
			}
		}
	}
}

// RateLimit answers 429 once the client's bucket is empty. A nil limiter
// lets every request through.
func RateLimit(rl *IPRateLimiter, next http.HandlerFunc) http.HandlerFunc {
	if rl == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ip := GetClientIP(r)
		if !rl.Allow(ip) {
			slog.Warn("rate limited", "client", rl.Key(ip), "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			ErrorResponse(w, http.StatusTooManyRequests, "Too many requests, please wait")
			return
		}
		next(w, r)
	}
}
