package middleware

import (
	"strings"

	"kikisite/internal/models"
	"kikisite/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const identityKey = "identity"

// AuthRequired is a Fiber middleware to check for a valid JWT token. The
// verified identity is stored for IdentityFrom.
func AuthRequired(authService *services.AuthService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		identity, err := authService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireRoles rejects identities whose role is not in allowed. It must run
// after AuthRequired.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFrom(c)
		if err := services.Authorize(identity, allowed...); err != nil {
			status := fiber.StatusForbidden
			if identity == nil {
				status = fiber.StatusUnauthorized
			}
			return c.Status(status).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity AuthRequired stored, or nil.
func IdentityFrom(c *fiber.Ctx) *models.Identity {
	identity, _ := c.Locals(identityKey).(*models.Identity)
	return identity
}
