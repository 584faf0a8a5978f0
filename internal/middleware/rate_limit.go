package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/session"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

// NewSubmissionRateLimiter limits recipe submissions to 10 per user per hour
func NewSubmissionRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     10,
		KeyPrefix: "rate_limit:recipe_submission",
	})
}

// Middleware enforces the limit per authenticated user on unsafe methods.
// Only requests the handler accepts (status below 400) use up the quota.
// Pages get the error page, API requests a 429 JSON body. Without Redis every
// request passes.
func (rl *RateLimiter) Middleware(page PageErrorFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redis == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		s := session.From(c)
		if !s.Authenticated {
			c.Next()
			return
		}
		id := s.UserID.String()

		remaining, resetTime, err := rl.GetRemainingRequests(c.Request.Context(), id)
		if err != nil {
			// Log error but don't fail the request
			logging.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if remaining <= 0 {
			message := fmt.Sprintf("You have exceeded the rate limit of %d submissions per %v", rl.config.Limit, rl.config.Window)
			if IsAPI(c) || page == nil {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":       "rate limit exceeded",
					"message":     message,
					"retry_after": int(resetTime.Sub(rl.now()).Seconds()),
				})
				return
			}
			page(c, http.StatusTooManyRequests, message)
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			if _, _, _, err := rl.IsAllowed(c.Request.Context(), id); err != nil {
				logging.Warn("rate limit count failed", zap.Error(err))
			}
		}
	}
}

func (rl *RateLimiter) key(id string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, id, windowStart.Unix())
}

// IsAllowed counts a request for id and reports whether it fits the window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, id string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	key := rl.key(id, windowStart)

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// GetRemainingRequests returns the number of remaining requests for id
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, id string) (int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	resetTime := windowStart.Add(rl.config.Window)

	count, err := rl.redis.Get(ctx, rl.key(id, windowStart)).Int()
	if err == redis.Nil {
		// No requests yet in this window
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}
