package banners

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jollyhome/jollyhome-api/internal/dto"
)

type BannerHandler struct {
	bannerService *BannerService
}

func NewBannerHandler(bannerService *BannerService) *BannerHandler {
	return &BannerHandler{bannerService: bannerService}
}

func (h *BannerHandler) ListBanners(c *fiber.Ctx) error {
	banners, err := h.bannerService.List(c.UserContext())
	if err != nil {
		slog.Error("list banners failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch banners",
		})
	}
	return c.JSON(banners)
}

func (h *BannerHandler) CreateBanner(c *fiber.Ctx) error {
	var req CreateBannerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	banner, err := h.bannerService.Create(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, ErrImageRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("create banner failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create banner",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(banner)
}

func (h *BannerHandler) DeleteBanner(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid banner ID",
		})
	}

	if err := h.bannerService.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, ErrBannerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Banner not found",
			})
		}
		slog.Error("delete banner failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete banner",
		})
	}
	return c.JSON(fiber.Map{"message": "Banner deleted"})
}
