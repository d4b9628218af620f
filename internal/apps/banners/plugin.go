package banners

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
)

type BannersPlugin struct{}

func New() *BannersPlugin {
	return &BannersPlugin{}
}

func (p *BannersPlugin) ID() string { return "banners" }

func (p *BannersPlugin) Models() []interface{} {
	return []interface{}{&Banner{}}
}

func (p *BannersPlugin) RegisterRoutes(router fiber.Router, gate *middleware.Gate, db *gorm.DB, cfg *config.Config) {
	handler := NewBannerHandler(NewBannerService(db))

	router.Get("/banners", gate.Wrap(middleware.AccessPublic, handler.ListBanners)...)
	router.Post("/banners", gate.Wrap(middleware.AccessAdmin, handler.CreateBanner)...)
	router.Delete("/banners/:id", gate.Wrap(middleware.AccessAdmin, handler.DeleteBanner)...)
}
