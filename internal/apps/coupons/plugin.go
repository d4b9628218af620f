package coupons

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
)

type CouponsPlugin struct{}

func New() *CouponsPlugin {
	return &CouponsPlugin{}
}

func (p *CouponsPlugin) ID() string { return "coupons" }

func (p *CouponsPlugin) Models() []interface{} {
	return []interface{}{&Coupon{}}
}

func (p *CouponsPlugin) RegisterRoutes(router fiber.Router, gate *middleware.Gate, db *gorm.DB, cfg *config.Config) {
	handler := NewCouponHandler(NewCouponService(db))

	router.Get("/coupons", gate.Wrap(middleware.AccessPublic, handler.ListCoupons)...)
	router.Get("/coupons/:code", gate.Wrap(middleware.AccessPublic, handler.GetCoupon)...)
	router.Post("/coupons", gate.Wrap(middleware.AccessAdmin, handler.CreateCoupon)...)
	router.Patch("/coupons/:id", gate.Wrap(middleware.AccessAdmin, handler.UpdateCoupon)...)
	router.Delete("/coupons/:id", gate.Wrap(middleware.AccessAdmin, handler.DeleteCoupon)...)
}
