package handlers

import (
	"errors"
	"time"

	"vriksh/internal/middleware"
	"vriksh/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Services bundles everything the routes need.
type Services struct {
	Tokens    *services.TokenService
	Auth      *services.AuthService
	Plants    *services.PlantService
	Identify  *services.IdentificationService
	Diagnoses *services.DiagnosisService
	Schedules *services.CareScheduleService
}

// AppConfig controls the Fiber app itself.
type AppConfig struct {
	BodyLimit int
	AccessLog bool
}

// NewApp builds the Fiber app with middleware and all routes mounted.
func NewApp(cfg AppConfig, svc Services, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "vriksh",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))
	app.Use(middleware.Prometheus())

	SetupRoutes(app, svc, log)
	return app
}

// SetupRoutes mounts every route on app.
func SetupRoutes(app *fiber.App, svc Services, log zerolog.Logger) {
	auth := middleware.AuthRequired(svc.Tokens)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	NewAuthHandler(svc.Auth, log).RegisterRoutes(app)

	ai := NewAIHandler(svc.Identify, svc.Diagnoses, svc.Schedules, log)
	ai.RegisterPublicRoutes(app)
	ai.RegisterProtectedRoutes(app, auth)

	NewPlantHandler(svc.Plants, svc.Diagnoses, log).RegisterRoutes(app, auth)
}

// errorHandler renders framework errors (unknown route, oversized body,
// recovered panics) in the same shape as handler errors.
func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			switch code {
			case fiber.StatusNotFound:
				msg = "Not found"
			case fiber.StatusRequestEntityTooLarge:
				msg = "Request body too large"
			case fiber.StatusMethodNotAllowed:
				msg = "Method not allowed"
			default:
				if code < fiber.StatusInternalServerError {
					msg = fe.Message
				}
			}
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		return fail(c, code, msg)
	}
}
