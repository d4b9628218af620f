package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/models"
	"github.com/jollyhome/jollyhome-api/internal/services"
)

// RoleLookup reads an identity's stored role.
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

// AdminRequired must run after Authenticated. The role is read from the
// store on every request and never taken from the token, so a role change
// applies to the caller's next request.
func AdminRequired(users RoleLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetClaims(c)
		if !ok {
			return unauthorized(c, errors.New("no claims in context"))
		}

		isAdmin, err := hasAdminRole(c.UserContext(), users, claims.Email)
		if err != nil {
			slog.Error("admin role lookup failed", "email", claims.Email, "request_id", RequestID(c), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
		if !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Forbidden access",
			})
		}
		return c.Next()
	}
}

func hasAdminRole(ctx context.Context, users RoleLookup, email string) (bool, error) {
	role, err := users.RoleOf(ctx, email)
	if errors.Is(err, services.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}
