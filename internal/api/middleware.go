// Package api implements the admin REST API: VIP grants, player links,
// the VIP duration setting and the health report, behind a static bearer
// token.
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// bucketIdle is how long an unused client bucket is kept.
	bucketIdle = 10 * time.Minute
	sweepEvery = time.Minute
)

// RequireToken rejects requests whose bearer token does not match token.
// An empty token disables the check.
func RequireToken(token string) gin.HandlerFunc {
	expected := []byte(token)

	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		got := extractBearerToken(c.GetHeader("Authorization"))
		if got == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or invalid authorization header",
			})
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid token",
			})
			return
		}

		c.Next()
	}
}

// RateLimiter is a per-client-IP token bucket.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	rate      int
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

type clientBucket struct {
	tokens    float64
	lastCheck time.Time
}

// NewRateLimiter allows rps requests per second per client with a burst of
// twice that. rps <= 0 disables limiting.
func NewRateLimiter(rps int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientBucket),
		rate:    rps,
		burst:   rps * 2,
		now:     time.Now,
	}
}

// Allow takes a token for key, reporting whether one was available.
func (rl *RateLimiter) Allow(key string) bool {
	if rl.rate <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)

	bucket, exists := rl.clients[key]
	if !exists {
		bucket = &clientBucket{tokens: float64(rl.burst), lastCheck: now}
		rl.clients[key] = bucket
	}

	elapsed := now.Sub(bucket.lastCheck).Seconds()
	bucket.tokens += elapsed * float64(rl.rate)
	if bucket.tokens > float64(rl.burst) {
		bucket.tokens = float64(rl.burst)
	}
	bucket.lastCheck = now

	if bucket.tokens < 1 {
		return false
	}
	bucket.tokens--
	return true
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < sweepEvery {
		return
	}
	rl.lastSweep = now
	for key, b := range rl.clients {
		if now.Sub(b.lastCheck) > bucketIdle {
			delete(rl.clients, key)
		}
	}
}

// Middleware returns a gin middleware that rate limits by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// SecurityHeaders adds security-related HTTP headers.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Server", "Frontline")
		c.Next()
	}
}

// RequestLogger logs each request at debug level.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("api request")
	}
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
