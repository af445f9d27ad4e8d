package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/movaride/movaride-backend/internal/dto"
	"github.com/movaride/movaride-backend/internal/ratelimit"
)

// LoginRateLimit throttles a route per client IP through the Redis-backed
// limiter. A nil limiter disables throttling; a Redis outage fails open so
// login does not depend on Redis availability.
func LoginRateLimit(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := limiter.Allow(c.Context(), "login:"+c.IP())
		if errors.Is(err, ratelimit.ErrRateLimited) {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: true, Message: "Too many login attempts, try again later",
			})
		}
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err)
		}
		return c.Next()
	}
}
