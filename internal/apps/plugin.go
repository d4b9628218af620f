package apps

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
)

// Plugin is one of the ancillary collections (apartments, banners, ...).
type Plugin interface {
	// ID returns a short name used in logs.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the plugin's routes. Each route declares its own
	// access level through gate; the router itself applies no checks.
	RegisterRoutes(router fiber.Router, gate *middleware.Gate, db *gorm.DB, cfg *config.Config)
}

// AllModels collects the models of every plugin.
func AllModels(plugins []Plugin) []interface{} {
	var all []interface{}
	for _, p := range plugins {
		all = append(all, p.Models()...)
	}
	return all
}
