package apartments

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jollyhome/jollyhome-api/internal/dto"
)

type ApartmentHandler struct {
	apartmentService *ApartmentService
}

func NewApartmentHandler(apartmentService *ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{apartmentService: apartmentService}
}

// ListApartments handles GET /apartments?page=&limit=.
func (h *ApartmentHandler) ListApartments(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 6)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 6
	}

	apartments, total, err := h.apartmentService.List(c.UserContext(), limit, (page-1)*limit)
	if err != nil {
		slog.Error("list apartments failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch apartments",
		})
	}

	return c.JSON(ApartmentsListResponse{
		Apartments: apartments,
		Total:      total,
		Page:       page,
		Limit:      limit,
	})
}

// GetApartment handles GET /apartments/:id.
func (h *ApartmentHandler) GetApartment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid apartment ID",
		})
	}

	apartment, err := h.apartmentService.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(apartment)
}

// CreateApartment handles POST /apartments.
func (h *ApartmentHandler) CreateApartment(c *fiber.Ctx) error {
	var req CreateApartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	apartment, err := h.apartmentService.Create(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(apartment)
}

// UpdateApartment handles PATCH /apartments/:id.
func (h *ApartmentHandler) UpdateApartment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid apartment ID",
		})
	}
	var req UpdateApartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	apartment, err := h.apartmentService.Update(c.UserContext(), id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(apartment)
}

// DeleteApartment handles DELETE /apartments/:id.
func (h *ApartmentHandler) DeleteApartment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid apartment ID",
		})
	}

	if err := h.apartmentService.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Apartment deleted"})
}

func (h *ApartmentHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrApartmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Apartment not found",
		})
	case errors.Is(err, ErrApartmentExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrInvalidApartment):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	slog.Error("apartment operation failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
