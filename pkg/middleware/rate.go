package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"contact-relay/pkg/metrics"
	"contact-relay/pkg/models"
)

// MsgTooManyRequests is returned to callers that exceed the limit
const MsgTooManyRequests = "יותר מדי בקשות. אנא נסה שוב בעוד דקה."

// RateLimitConfig defines configuration for the rate limiter
type RateLimitConfig struct {
	// Max requests a single client may make per Window
	Max    int
	Window time.Duration
}

type clientWindow struct {
	start time.Time
	count int
}

// RateLimiter counts requests per client address in fixed windows. A window
// opens with the client's first request and admits at most Max requests until
// Window has elapsed.
type RateLimiter struct {
	config RateLimitConfig

	mu        sync.Mutex
	clients   map[string]*clientWindow
	lastSweep time.Time
	now       func() time.Time

	// throttles the "limit exceeded" warning to one line per window
	warn rate.Sometimes
}

// NewRateLimiter creates a new per-client rate limiter
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.Max <= 0 {
		config.Max = 1
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	return &RateLimiter{
		config:  config,
		clients: make(map[string]*clientWindow),
		now:     time.Now,
		warn:    rate.Sometimes{Interval: config.Window},
	}
}

// Allow counts one request for key. When the window is used up it reports how
// long until the window resets.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, ok := rl.clients[key]
	if !ok || now.Sub(w.start) >= rl.config.Window {
		w = &clientWindow{start: now}
		rl.clients[key] = w
	}

	if w.count < rl.config.Max {
		w.count++
		return true, rl.config.Max - w.count, 0
	}
	return false, 0, w.start.Add(rl.config.Window).Sub(now)
}

// sweep drops clients whose window has expired. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.config.Window {
		return
	}
	for key, w := range rl.clients {
		if now.Sub(w.start) >= rl.config.Window {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// Middleware rejects requests over the limit with 429 before they reach the
// handler. Clients are keyed by gin's ClientIP.
func (rl *RateLimiter) Middleware(m *metrics.Metrics, logger *zap.SugaredLogger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return func(c *gin.Context) {
		allowed, remaining, retryAfter := rl.Allow(c.ClientIP())

		c.Header("RateLimit-Limit", strconv.Itoa(rl.config.Max))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			m.Submission(metrics.ResultLimited)
			rl.warn.Do(func() {
				logger.Warnw("Rate limit exceeded", "path", c.FullPath(), "max", rl.config.Max, "window", rl.config.Window.String())
			})
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.NewErrorResponse(MsgTooManyRequests, nil))
			return
		}

		c.Next()
	}
}
