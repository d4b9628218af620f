package apartments

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
)

type ApartmentsPlugin struct{}

func New() *ApartmentsPlugin {
	return &ApartmentsPlugin{}
}

func (p *ApartmentsPlugin) ID() string { return "apartments" }

func (p *ApartmentsPlugin) Models() []interface{} {
	return []interface{}{&Apartment{}}
}

func (p *ApartmentsPlugin) RegisterRoutes(router fiber.Router, gate *middleware.Gate, db *gorm.DB, cfg *config.Config) {
	handler := NewApartmentHandler(NewApartmentService(db))

	router.Get("/apartments", gate.Wrap(middleware.AccessPublic, handler.ListApartments)...)
	router.Get("/apartments/:id", gate.Wrap(middleware.AccessPublic, handler.GetApartment)...)
	router.Post("/apartments", gate.Wrap(middleware.AccessAdmin, handler.CreateApartment)...)
	router.Patch("/apartments/:id", gate.Wrap(middleware.AccessAdmin, handler.UpdateApartment)...)
	router.Delete("/apartments/:id", gate.Wrap(middleware.AccessAdmin, handler.DeleteApartment)...)
}
