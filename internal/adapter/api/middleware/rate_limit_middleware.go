package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"medconnect/internal/infrastructure/ratelimit"
	"medconnect/pkg/errors"
	"medconnect/pkg/logger"
	"medconnect/pkg/response"
)

type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit spends one token of action per request. Authenticated requests are
// keyed by user, others by client IP.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, _ := c.Get(ContextUID).(string)
			if key == "" {
				key = c.RealIP()
			}

			allowed, wait := m.limiter.Allow(key, action)
			if !allowed {
				logger.Warn("Rate limit: %s blocked on %s for %v", key, action, wait)
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.TooManyRequests("Too many requests, slow down"))
			}
			return next(c)
		}
	}
}
