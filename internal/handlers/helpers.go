package handlers

import (
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
)

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

// storeFailure logs the cause and answers with a generic 500.
func storeFailure(c *fiber.Ctx, action string, err error) error {
	slog.Error("store operation failed",
		"action", action,
		"method", c.Method(),
		"path", c.Path(),
		"request_id", middleware.RequestID(c),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

// emailParam reads an email path segment, undoing percent-encoding of '@'.
func emailParam(c *fiber.Ctx) string {
	raw := c.Params("email")
	if email, err := url.PathUnescape(raw); err == nil {
		return email
	}
	return raw
}
