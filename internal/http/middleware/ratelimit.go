// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements an in-memory token-bucket rate limiter with one
// bucket per client identity. It is process-local and intended for
// edge-level abuse control in single-instance deployments; horizontally
// scaled setups should put a distributed limiter in front instead.
package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nordstack/go-api-starter/internal/apperr"
)

// KeyFunc selects the identity a bucket is keyed by. Keys should be stable
// for the duration of a request and namespaced to avoid collisions.
type KeyFunc func(*gin.Context) string

// KeyByUserOrIP prefers the authenticated user ID (set by Auth) and falls
// back to the client IP for anonymous traffic.
func KeyByUserOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if uid := UserIDFrom(c); uid != "" {
			return "user:" + uid
		}
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds per-key token buckets behind a mutex. Idle buckets are
// swept opportunistically during lookups so memory stays bounded without a
// background goroutine. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn KeyFunc

	mu      sync.Mutex
	buckets map[string]*bucket
	lookups uint64

	idleTTL time.Duration
}

// NewRateLimiter constructs a limiter allowing rps tokens per second with
// the given burst size. An rps of 0 disables limiting entirely.
func NewRateLimiter(rps float64, burst int, keyFn KeyFunc) *RateLimiter {
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
		idleTTL: 10 * time.Minute,
	}
}

// allow reports whether the identity may proceed, creating its bucket on
// first sight and sweeping idle buckets every few hundred lookups.
func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now

	rl.lookups++
	if rl.lookups%256 == 0 {
		for k, v := range rl.buckets {
			if now.Sub(v.lastSeen) > rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
	}

	return b.limiter.Allow()
}

// Handler returns the Gin middleware. Over-limit requests are handed to
// onError as an operational 429 failure; limiting is a no-op when rps is 0.
func (rl *RateLimiter) Handler(onError func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rps <= 0 {
			c.Next()
			return
		}
		if !rl.allow(rl.keyFn(c)) {
			onError(c, apperr.New(429, "Too many requests"))
			return
		}
		c.Next()
	}
}
