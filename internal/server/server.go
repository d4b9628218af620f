// Package server assembles the Fiber application from its parts.
package server

import (
	"log/slog"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/apps"
	"github.com/jollyhome/jollyhome-api/internal/apps/announcements"
	"github.com/jollyhome/jollyhome-api/internal/apps/apartments"
	"github.com/jollyhome/jollyhome-api/internal/apps/banners"
	"github.com/jollyhome/jollyhome-api/internal/apps/coupons"
	"github.com/jollyhome/jollyhome-api/internal/apps/payments"
	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/handlers"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
	"github.com/jollyhome/jollyhome-api/internal/routes"
	"github.com/jollyhome/jollyhome-api/internal/services"
)

// Deps are the collaborators built outside the HTTP layer.
type Deps struct {
	DB         *gorm.DB
	Ping       func() error
	Revocation services.RevocationStore
	Processor  payments.PaymentProcessor
	// AccessLog enables the per-request access log line.
	AccessLog bool
	// Sentry installs the Sentry middleware; only set once sentry.Init succeeded.
	Sentry bool
}

// Plugins lists the ancillary collections in mount order.
func Plugins(cfg *config.Config, processor payments.PaymentProcessor) []apps.Plugin {
	return []apps.Plugin{
		apartments.New(),
		banners.New(),
		coupons.New(),
		announcements.New(),
		payments.New(processor, cfg.PaymentCurrency),
	}
}

// PluginModels returns the tables the plugins own, for migration.
func PluginModels(cfg *config.Config) []interface{} {
	return apps.AllModels(Plugins(cfg, nil))
}

// New builds the application. The schema must already be migrated.
func New(cfg *config.Config, deps Deps) *fiber.App {
	tokens := services.NewTokenService(cfg.TokenSecret, cfg.TokenExpiry, deps.Revocation)
	users := services.NewUserService(deps.DB)
	agreements := services.NewAgreementService(deps.DB)
	gate := middleware.NewGate(tokens, users, cfg.HardenedAccess)

	ping := deps.Ping
	if ping == nil {
		ping = func() error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	if deps.Sentry {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	if deps.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
		}))
	}
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})
	app.Use(middleware.StoreDeadline(cfg.StoreTimeout))

	routes.Setup(app, cfg, deps.DB, gate,
		handlers.NewTokenHandler(tokens, cfg),
		handlers.NewUserHandler(users),
		handlers.NewAgreementHandler(agreements),
		handlers.NewHealthHandler(ping),
		Plugins(cfg, deps.Processor),
	)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", middleware.RequestID(c),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
