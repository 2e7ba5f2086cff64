package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// clientWindow tracks requests from one client IP
type clientWindow struct {
	Count   int
	FirstAt time.Time
}

// RateLimiter allows a fixed number of requests per client IP within a window
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientWindow
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewRateLimiter creates a new rate limiter
// maxRequests: requests allowed per client within the window
// window: length of the counting window
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:     make(map[string]*clientWindow),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records a request from ip and reports whether it may proceed,
// with the time left until the window resets when it may not
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	cw, ok := rl.clients[ip]
	if !ok {
		rl.clients[ip] = &clientWindow{Count: 1, FirstAt: now}
		return true, 0
	}

	if cw.Count >= rl.maxRequests {
		return false, cw.FirstAt.Add(rl.window).Sub(now)
	}
	cw.Count++
	return true, 0
}

// cleanup removes expired windows; callers hold the lock
func (rl *RateLimiter) cleanup(now time.Time) {
	for ip, cw := range rl.clients {
		if now.Sub(cw.FirstAt) >= rl.window {
			delete(rl.clients, ip)
		}
	}
}

// Limit returns a middleware rejecting clients over the limit with 429
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.Allow(c.ClientIP())
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": seconds,
			})
			return
		}
		c.Next()
	}
}
