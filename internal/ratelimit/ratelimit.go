// Package ratelimit enforces a fixed request quota per source IP per time
// window, ahead of authentication. It is brute-force protection, not part of
// the API contract: on limiter-store errors requests are allowed through.
package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter answers whether one more request from key is within quota.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Middleware returns a gin middleware applying l per client IP. A nil
// limiter disables limiting.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		ok, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Fail open: limiter-store outage must not take the API down.
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests from this IP, please try again later.",
			})
			return
		}
		c.Next()
	}
}

type windowEntry struct {
	count   int
	startAt time.Time
}

// MemoryLimiter is an in-process fixed-window limiter. Used in tests and as
// a fallback when Redis is not configured.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	max     int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter allows max requests per key per window.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*windowEntry),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.Sub(e.startAt) >= l.window {
		l.entries[key] = &windowEntry{count: 1, startAt: now}
		return true, nil
	}
	if e.count >= l.max {
		return false, nil
	}
	e.count++
	return true, nil
}
