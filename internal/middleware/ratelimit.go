// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// maxLimiterEntries caps the per-IP limiter map; the map is cleared when it
// grows past this, resetting limits rather than growing unbounded.
const maxLimiterEntries = 10000

// limiterCache is a per-IP rate limiter cache with double-check locking.
type limiterCache struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache(rps float64, burst int) *limiterCache {
	return &limiterCache{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for a key, creating one if needed.
func (lc *limiterCache) get(key string) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	if len(lc.limiters) > maxLimiterEntries {
		lc.limiters = make(map[string]*rate.Limiter)
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// RateLimiter limits requests per client IP. It protects the
// unauthenticated endpoints (login, register, contact form) from abuse.
type RateLimiter struct {
	cache *limiterCache
}

// NewRateLimiter creates a rate limiter allowing rps requests per second
// with the given burst per client IP.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{cache: newLimiterCache(rps, burst)}
}

// Middleware returns the rate limiting middleware.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !rl.cache.get(ip).Allow() {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the request's client IP. chi's RealIP middleware has
// already folded X-Forwarded-For into RemoteAddr by the time this runs.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
