package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
	"github.com/jollyhome/jollyhome-api/internal/models"
	"github.com/jollyhome/jollyhome-api/internal/services"
)

type AgreementHandler struct {
	agreements *services.AgreementService
}

func NewAgreementHandler(agreements *services.AgreementService) *AgreementHandler {
	return &AgreementHandler{agreements: agreements}
}

// List handles GET /agreement.
func (h *AgreementHandler) List(c *fiber.Ctx) error {
	agreements, err := h.agreements.GetAll(c.UserContext())
	if err != nil {
		return storeFailure(c, "list_agreements", err)
	}
	return c.JSON(agreements)
}

// GetByOwner handles GET /agreement/:email. No agreement is {"agreement": null}.
func (h *AgreementHandler) GetByOwner(c *fiber.Ctx) error {
	agreement, err := h.agreements.GetByEmail(c.UserContext(), emailParam(c))
	if err != nil {
		return storeFailure(c, "get_agreement", err)
	}
	return c.JSON(dto.AgreementLookupResponse{Agreement: agreement})
}

// Submit handles POST /agreement. A duplicate comes back as a 200 with
// accepted=false.
func (h *AgreementHandler) Submit(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized access",
		})
	}

	var req dto.SubmitAgreementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	owner := models.NormalizeEmail(req.OwnerEmail)
	if owner != "" && owner != claims.Email {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Forbidden access",
		})
	}
	req.OwnerEmail = claims.Email

	sub, err := h.agreements.Submit(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrOwnerRequired) {
			return badRequest(c, err.Error())
		}
		return storeFailure(c, "submit_agreement", err)
	}

	res := dto.SubmissionResult{Accepted: sub.Accepted, Reason: sub.Reason}
	if sub.Agreement != nil {
		res.Agreement = sub.Agreement
	}
	return c.JSON(res)
}

// Delete handles DELETE /agreement/:id.
func (h *AgreementHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid agreement ID")
	}
	deleted, err := h.agreements.DeleteByID(c.UserContext(), id)
	if err != nil {
		return storeFailure(c, "delete_agreement", err)
	}
	return c.JSON(dto.DeleteResponse{Deleted: deleted})
}

// Approve handles POST /agreement/:id/approve.
func (h *AgreementHandler) Approve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid agreement ID")
	}

	user, err := h.agreements.Approve(c.UserContext(), id)
	switch {
	case errors.Is(err, services.ErrAgreementNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Agreement not found",
		})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Agreement owner not found",
		})
	case err != nil:
		return storeFailure(c, "approve_agreement", err)
	}
	return c.JSON(dto.UserUpdatedResponse{Message: "Agreement approved", User: user})
}
