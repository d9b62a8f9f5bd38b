package handlers

import (
	"errors"
	"strings"

	"kikisite/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"
)

// respondError translates service errors into HTTP responses. Errors outside
// the apperr taxonomy are logged and answered with an opaque 500.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var status int
	switch {
	case errors.Is(err, apperr.ErrValidation):
		body := fiber.Map{"message": apperr.Message(err, "Validation failed")}
		if fields := apperr.Fields(err); len(fields) > 0 {
			body["errors"] = fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, apperr.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		status = fiber.StatusConflict
	default:
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("Request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": apperr.Message(err, utils.StatusMessage(status)),
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
	})
}

func missingID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Query parameter 'id' is required",
	})
}

// MethodNotAllowed answers requests whose method the route does not serve.
func MethodNotAllowed(allowed ...string) fiber.Handler {
	allowHeader := strings.Join(allowed, ", ")
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAllow, allowHeader)
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"message": "Method " + c.Method() + " not allowed",
			"allowed": allowed,
		})
	}
}
