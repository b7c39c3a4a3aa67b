package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoginLimit returns middleware limiting requests per client IP. A limiter
// failure (for example Redis down) fails open so an outage cannot lock every
// account holder out of login.
func LoginLimit(limiter Limiter, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}

		result, err := limiter.Allow(c.Context(), c.IP())
		if err != nil {
			logger.Warn("rate limiter unavailable; allowing request", zap.Error(err))
			return c.Next()
		}

		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set("Retry-After", strconv.Itoa(retryAfter))
			return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many login attempts",
			})
		}
		return c.Next()
	}
}
