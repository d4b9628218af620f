package payments

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
	"github.com/jollyhome/jollyhome-api/internal/models"
)

type PaymentHandler struct {
	paymentService *PaymentService
	gate           *middleware.Gate
}

func NewPaymentHandler(paymentService *PaymentService, gate *middleware.Gate) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, gate: gate}
}

// CreateIntent handles POST /create-payment-intent.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req CreateIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	secret, err := h.paymentService.CreateIntent(c.UserContext(), req.Price)
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrProcessorMissing):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Payments are not available",
		})
	case err != nil:
		slog.Error("create payment intent failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create payment intent",
		})
	}
	return c.JSON(CreateIntentResponse{ClientSecret: secret})
}

// RecordPayment handles POST /payments for the caller's own email.
func (h *PaymentHandler) RecordPayment(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized access",
		})
	}
	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	payment, err := h.paymentService.Record(c.UserContext(), claims.Email, &req)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrTransactionMissing) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("record payment failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to record payment",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// ListOwnPayments handles GET /payments/:email. Admins may read anyone's.
func (h *PaymentHandler) ListOwnPayments(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized access",
		})
	}
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		email = c.Params("email")
	}

	email = models.NormalizeEmail(email)
	if email != claims.Email {
		admin, err := h.gate.IsAdmin(c.UserContext(), claims.Email)
		if err != nil {
			slog.Error("admin lookup failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
		if !admin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Forbidden access",
			})
		}
	}

	payments, err := h.paymentService.ListByEmail(c.UserContext(), email)
	if err != nil {
		slog.Error("list payments failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch payments",
		})
	}
	return c.JSON(payments)
}

// ListPayments handles GET /payments.
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	payments, err := h.paymentService.ListAll(c.UserContext())
	if err != nil {
		slog.Error("list payments failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch payments",
		})
	}
	return c.JSON(payments)
}
