package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/apps"
	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/handlers"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
)

const (
	public        = middleware.AccessPublic
	authenticated = middleware.AccessAuthenticated
	admin         = middleware.AccessAdmin
)

// Setup mounts every route. Each route names the access it has always had
// and the access it gets under HARDENED_ACCESS; nothing is gated globally.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	gate *middleware.Gate,
	tokenHandler *handlers.TokenHandler,
	userHandler *handlers.UserHandler,
	agreementHandler *handlers.AgreementHandler,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
) {
	// General rate limiter: 60 req/min per IP
	app.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		Next:              func(c *fiber.Ctx) bool { return c.Path() == "/health" },
	}))

	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Token issuance is stricter: 10 req/min per IP
	jwt := app.Group("/jwt", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	jwt.Post("", gate.Route(public, public, tokenHandler.Issue)...)
	jwt.Post("/revoke", gate.Route(authenticated, authenticated, tokenHandler.Revoke)...)
	app.Get("/logout", gate.Route(public, public, tokenHandler.Logout)...)

	// Users
	app.Get("/users", gate.Route(public, admin, userHandler.List)...)
	app.Get("/users/:email", gate.Route(public, admin, userHandler.Get)...)
	app.Put("/user", gate.Route(public, public, userHandler.Upsert)...)
	app.Patch("/users/:id/role", gate.Route(admin, admin, userHandler.SetRole)...)
	app.Patch("/users/:email", gate.Route(public, admin, userHandler.Patch)...)

	// Agreements
	app.Get("/agreement", gate.Route(public, admin, agreementHandler.List)...)
	app.Get("/agreement/:email", gate.Route(public, authenticated, agreementHandler.GetByOwner)...)
	app.Post("/agreement", gate.Route(authenticated, authenticated, agreementHandler.Submit)...)
	app.Delete("/agreement/:id", gate.Route(admin, admin, agreementHandler.Delete)...)
	app.Post("/agreement/:id/approve", gate.Route(admin, admin, agreementHandler.Approve)...)

	for _, p := range plugins {
		p.RegisterRoutes(app, gate, db, cfg)
	}
}
