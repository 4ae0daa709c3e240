// Package middleware provides the HTTP middleware stack: error handling,
// request identity and logging, auth, and rate limiting.
package middleware

import (
	"strconv"
	"sync"
	"time"

	"triage_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// RateLimiter is a fixed-window, per-IP in-memory limiter.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string]*requestInfo
	limit    int
	window   time.Duration
}

type requestInfo struct {
	count     int
	resetTime time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string]*requestInfo),
		limit:    limit,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, info := range rl.requests {
			if now.After(info.resetTime) {
				delete(rl.requests, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Handler returns the fiber middleware.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()

		rl.mu.Lock()
		info, exists := rl.requests[ip]
		now := time.Now()
		if !exists || now.After(info.resetTime) {
			info = &requestInfo{resetTime: now.Add(rl.window)}
			rl.requests[ip] = info
		}
		info.count++
		count := info.count
		reset := info.resetTime
		rl.mu.Unlock()

		remaining := rl.limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if count > rl.limit {
			c.Set("Retry-After", strconv.Itoa(int(time.Until(reset).Seconds())+1))
			return apperr.RateLimited("")
		}

		return c.Next()
	}
}
