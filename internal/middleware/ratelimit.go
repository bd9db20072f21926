package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/bocspot/internal/domain/dto"
)

// Defaults for RateLimiter.
const (
	DefaultRateWindow = time.Minute
	DefaultRateLimit  = 60
)

type visitor struct {
	windowStart time.Time
	count       int
}

// ipLimiter is a fixed-window request counter keyed by client IP.
// State is per process. Expired windows are swept at most once per window.
type ipLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	window    time.Duration
	limit     int
	now       func() time.Time
	lastSweep time.Time
}

func newIPLimiter(window time.Duration, limit int) *ipLimiter {
	return &ipLimiter{
		visitors: make(map[string]*visitor),
		window:   window,
		limit:    limit,
		now:      time.Now,
	}
}

// allow counts one request for ip and reports whether it fits the window.
func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}
	v, ok := l.visitors[ip]
	if !ok || now.Sub(v.windowStart) >= l.window {
		l.visitors[ip] = &visitor{windowStart: now, count: 1}
		return true
	}
	v.count++
	return v.count <= l.limit
}

// sweep drops every visitor whose window has ended. Caller holds l.mu.
func (l *ipLimiter) sweep(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.windowStart) >= l.window {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

// RateLimiter allows DefaultRateLimit requests per client IP per DefaultRateWindow.
func RateLimiter() gin.HandlerFunc {
	return RateLimiterWith(DefaultRateWindow, DefaultRateLimit)
}

// RateLimiterWith is RateLimiter with an explicit window and limit.
// Requests over the limit get 429 with an ErrorResponse body.
func RateLimiterWith(window time.Duration, limit int) gin.HandlerFunc {
	l := newIPLimiter(window, limit)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}
