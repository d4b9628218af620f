package announcements

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jollyhome/jollyhome-api/internal/dto"
)

type AnnouncementHandler struct {
	announcementService *AnnouncementService
}

func NewAnnouncementHandler(announcementService *AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

func (h *AnnouncementHandler) ListAnnouncements(c *fiber.Ctx) error {
	announcements, err := h.announcementService.List(c.UserContext())
	if err != nil {
		slog.Error("list announcements failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch announcements",
		})
	}
	return c.JSON(announcements)
}

func (h *AnnouncementHandler) CreateAnnouncement(c *fiber.Ctx) error {
	var req CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	announcement, err := h.announcementService.Create(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("create announcement failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create announcement",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(announcement)
}

// UpdateStatus handles PATCH /announcements/:id.
func (h *AnnouncementHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid announcement ID",
		})
	}
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	err = h.announcementService.SetStatus(c.UserContext(), id, req.Status)
	switch {
	case errors.Is(err, ErrAnnouncementNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Announcement not found",
		})
	case errors.Is(err, ErrStatusRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case err != nil:
		slog.Error("update announcement failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update announcement",
		})
	}
	return c.JSON(AcknowledgedResponse{Acknowledged: true})
}
