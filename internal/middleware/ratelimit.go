package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trackcore-go/pkg/response"
)

// RateLimiter allows at most limit events per client within a sliding
// window. Expired entries are pruned whenever the client is seen again and,
// for idle clients, on every sweep.
type RateLimiter struct {
	mu     sync.Mutex
	events map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
	lastGC time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		events: make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records an event for key and reports whether it is within the
// limit. Rejected events are not recorded.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastGC) >= rl.window {
		rl.sweep(now)
	}

	recent := rl.prune(rl.events[key], now)
	if len(recent) >= rl.limit {
		rl.events[key] = recent
		return false
	}
	rl.events[key] = append(recent, now)
	return true
}

func (rl *RateLimiter) prune(times []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(times) && now.Sub(times[i]) >= rl.window {
		i++
	}
	return times[i:]
}

func (rl *RateLimiter) sweep(now time.Time) {
	for key, times := range rl.events {
		if recent := rl.prune(times, now); len(recent) == 0 {
			delete(rl.events, key)
		} else {
			rl.events[key] = recent
		}
	}
	rl.lastGC = now
}

// RateLimit rejects requests of clients above limit requests per window
// with 429.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			response.Error(c, http.StatusTooManyRequests, "rate limit exceeded, try again later", nil)
			return
		}
		c.Next()
	}
}
