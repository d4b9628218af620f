package coupons

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jollyhome/jollyhome-api/internal/dto"
)

type CouponHandler struct {
	couponService *CouponService
}

func NewCouponHandler(couponService *CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// ListCoupons handles GET /coupons.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.couponService.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(coupons)
}

// GetCoupon handles GET /coupons/:code.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	coupon, err := h.couponService.GetAvailable(c.UserContext(), c.Params("code"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(coupon)
}

// CreateCoupon handles POST /coupons.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req CreateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	coupon, err := h.couponService.Create(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// UpdateCoupon handles PATCH /coupons/:id.
func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid coupon ID",
		})
	}
	var req UpdateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	coupon, err := h.couponService.Update(c.UserContext(), id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(coupon)
}

// DeleteCoupon handles DELETE /coupons/:id.
func (h *CouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid coupon ID",
		})
	}
	if err := h.couponService.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Coupon deleted"})
}

func (h *CouponHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrCouponNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Coupon not found",
		})
	case errors.Is(err, ErrCouponExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrInvalidCoupon), errors.Is(err, ErrInvalidDiscount):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	slog.Error("coupon operation failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
