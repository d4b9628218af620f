package announcements

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
)

type AnnouncementsPlugin struct{}

func New() *AnnouncementsPlugin {
	return &AnnouncementsPlugin{}
}

func (p *AnnouncementsPlugin) ID() string { return "announcements" }

func (p *AnnouncementsPlugin) Models() []interface{} {
	return []interface{}{&Announcement{}}
}

// Writes were historically open to anyone; hardened access restricts them
// to admins.
func (p *AnnouncementsPlugin) RegisterRoutes(router fiber.Router, gate *middleware.Gate, db *gorm.DB, cfg *config.Config) {
	handler := NewAnnouncementHandler(NewAnnouncementService(db))

	router.Get("/announcement", gate.Wrap(middleware.AccessPublic, handler.ListAnnouncements)...)
	router.Post("/announcement",
		gate.Route(middleware.AccessPublic, middleware.AccessAdmin, handler.CreateAnnouncement)...)
	router.Patch("/announcements/:id",
		gate.Route(middleware.AccessPublic, middleware.AccessAdmin, handler.UpdateStatus)...)
}
