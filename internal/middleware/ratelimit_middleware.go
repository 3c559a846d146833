package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/cache"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// RateLimiter enforces a fixed-window per-IP limit backed by Redis, so the
// limit holds across instances. Used on the login endpoint and the public
// contact form.
type RateLimiter struct {
	redis *cache.RedisClient
}

// NewRateLimiter constructs a RateLimiter.
func NewRateLimiter(redis *cache.RedisClient) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// Limit allows at most max requests per window per client IP for the named
// scope. On Redis failure the request is allowed through.
func (r *RateLimiter) Limit(scope string, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())
		n, err := r.redis.IncrWithTTL(c.Request.Context(), key, window)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}
		if n > max {
			utils.Error(c, 429, "RATE_LIMITED", "Too many requests, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
