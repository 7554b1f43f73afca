package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter keeps a token bucket per client key. Stale buckets are dropped
// whenever the map grows past maxKeys, so an address scan cannot grow it
// without bound.
type RateLimiter struct {
	mu      sync.Mutex
	limits  map[string]*clientLimiter
	rate    rate.Limit
	burst   int
	maxKeys int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst per client.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limits:  make(map[string]*clientLimiter),
		rate:    rate.Limit(rps),
		burst:   burst,
		maxKeys: 10000,
	}
}

// Allow reports whether a request from key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limits[key]
	if !ok {
		if len(rl.limits) >= rl.maxKeys {
			rl.evictStale()
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limits[key] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter.Allow()
}

// evictStale drops buckets idle for over a minute. Must be called with the
// lock held.
func (rl *RateLimiter) evictStale() {
	cutoff := time.Now().Add(-time.Minute)
	for key, cl := range rl.limits {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.limits, key)
		}
	}
}

// Middleware returns an Echo middleware that limits requests per client IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
