package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/movaride/movaride-backend/internal/dto"
	"github.com/movaride/movaride-backend/internal/tokens"
)

const claimsKey = "claims"

// Protected authenticates the bearer token through the token service, which
// checks signature, expiry and the revocation blacklist. All failures map
// to a single 401 body.
func Protected(svc *tokens.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: token missing",
			})
		}

		claims, err := svc.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid, expired or revoked token",
			})
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
// Must run after Protected.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Forbidden: insufficient role",
		})
	}
}

// Claims returns the verified access claims stored by Protected, or nil.
func Claims(c *fiber.Ctx) *tokens.AccessClaims {
	claims, _ := c.Locals(claimsKey).(*tokens.AccessClaims)
	return claims
}
