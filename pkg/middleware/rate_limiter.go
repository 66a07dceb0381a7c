package middleware

import (
	"strconv"
	"sync"
	"time"

	"health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterOptions configures the rate limiter
type RateLimiterOptions struct {
	// Limit defines requests per second
	Limit rate.Limit
	// Burst defines maximum burst size allowed
	Burst int
	// ExpiryDuration defines how long idle bucket state is kept
	ExpiryDuration time.Duration
	// KeyFunc extracts the limiting key from a request
	KeyFunc func(*gin.Context) string
}

// DefaultRateLimiterOptions keys authenticated requests by user id so a
// shared clinic NAT does not exhaust one bucket, and anonymous requests by
// client IP.
func DefaultRateLimiterOptions() RateLimiterOptions {
	return RateLimiterOptions{
		Limit:          5,
		Burst:          10,
		ExpiryDuration: time.Hour,
		KeyFunc:        UserOrIPKey,
	}
}

// UserOrIPKey returns "user:<id>" for authenticated callers, the client IP
// otherwise
func UserOrIPKey(c *gin.Context) string {
	if id := UserIDFromContext(c); id > 0 {
		return "user:" + strconv.FormatUint(uint64(id), 10)
	}
	return c.ClientIP()
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements per-caller token bucket rate limiting for Gin
type RateLimiter struct {
	mu      sync.Mutex
	options RateLimiterOptions
	buckets map[string]*bucket
	logger  *logger.Logger
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(logger *logger.Logger, options ...RateLimiterOptions) *RateLimiter {
	opts := DefaultRateLimiterOptions()
	if len(options) > 0 {
		opts = options[0]
		if opts.KeyFunc == nil {
			opts.KeyFunc = UserOrIPKey
		}
	}

	return &RateLimiter{
		options: opts,
		buckets: make(map[string]*bucket),
		logger:  logger,
	}
}

// Middleware returns a Gin middleware enforcing the limit
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	go r.cleanup()

	return func(c *gin.Context) {
		key := r.options.KeyFunc(c)

		if !r.bucketFor(key).Allow() {
			r.logger.Warn("Rate limit exceeded",
				"client", key,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)

			c.Header("Retry-After", "1")
			c.Error(errors.NewError(429, errors.CodeRateLimited, "Too many requests. Please try again later."))
			c.Abort()
			return
		}

		c.Next()
	}
}

func (r *RateLimiter) bucketFor(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, exists := r.buckets[key]
	if !exists {
		b = &bucket{limiter: rate.NewLimiter(r.options.Limit, r.options.Burst)}
		r.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

// cleanup drops buckets that have been idle past the expiry window
func (r *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.Lock()
		for k, b := range r.buckets {
			if time.Since(b.lastSeen) > r.options.ExpiryDuration {
				delete(r.buckets, k)
			}
		}
		r.mu.Unlock()
	}
}
