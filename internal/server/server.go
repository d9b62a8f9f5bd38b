// Package server assembles the fiber application.
package server

import (
	"context"
	"errors"
	"time"

	"kikisite/internal/config"
	"kikisite/internal/database"
	"kikisite/internal/handlers"
	"kikisite/internal/middleware"
	"kikisite/internal/models"
	"kikisite/internal/services"
	"kikisite/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// multipartOverhead is the allowance on top of MaxUploadSize for multipart
// framing and the other form fields.
const multipartOverhead = 1 << 20

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Config   config.ServerConfig
	DB       *gorm.DB
	Auth     *services.AuthService
	Articles *services.ArticleService
	Images   *services.ImageService
	Uploads  *services.UploadService
	Log      zerolog.Logger
}

// NewApp builds the fiber app with every route and middleware registered.
func NewApp(deps Deps) *fiber.App {
	log := deps.Log.With().Str("component", "http").Logger()

	app := fiber.New(fiber.Config{
		AppName:               "kikisite",
		BodyLimit:             int(services.MaxUploadSize) + multipartOverhead,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	// --- Middleware ---
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	if deps.Config.RequestTimeout > 0 {
		app.Use(middleware.RequestTimeout(deps.Config.RequestTimeout))
	}

	// --- Health Check Endpoint ---
	app.Get("/health", healthCheck(deps.DB))

	validate := validation.New()
	api := app.Group("/api")

	handlers.NewAuthHandler(deps.Auth, validate, log).RegisterRoutes(api)
	handlers.NewPublicHandler(deps.Articles, log).RegisterRoutes(api)

	admin := api.Group("/admin",
		middleware.AuthRequired(deps.Auth, log),
		middleware.RequireRoles(models.RoleAdmin, models.RoleEditor),
	)
	handlers.NewArticleHandler(deps.Articles, validate, log).RegisterRoutes(admin)
	handlers.NewImageHandler(deps.Images, validate, log).RegisterRoutes(admin)
	handlers.NewUploadHandler(deps.Uploads, deps.Images, log).RegisterRoutes(admin)

	return app
}

func healthCheck(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "unreachable",
			})
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
		})
	}
}

// errorHandler renders framework errors (unknown route, body too large,
// recovered panics) as {"message": ...}.
func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		} else {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("Unhandled error")
		}

		return c.Status(code).JSON(fiber.Map{
			"message": message,
		})
	}
}
