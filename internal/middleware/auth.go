package middleware

import (
	"log/slog"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/services"
)

const claimsKey = "claims"

// Authenticated verifies the bearer token and stores the claims for later
// stages. Every failure gets the same 401 body.
func Authenticated(tokens *services.TokenService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc: tokens.Keyfunc,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals("user").(*jwt.Token)
			claims, err := tokens.FromToken(c.UserContext(), token)
			if err != nil {
				return unauthorized(c, err)
			}
			c.Locals(claimsKey, claims)
			return c.Next()
		},
		ErrorHandler: unauthorized,
	})
}

// GetClaims returns the claims stored by Authenticated.
func GetClaims(c *fiber.Ctx) (*services.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*services.Claims)
	return claims, ok && claims != nil
}

func unauthorized(c *fiber.Ctx, err error) error {
	slog.Debug("token rejected", "path", c.Path(), "request_id", RequestID(c), "error", err)
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized access",
	})
}

// RequestID returns the id assigned by the requestid middleware, if any.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
