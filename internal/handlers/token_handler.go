package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
	"github.com/jollyhome/jollyhome-api/internal/services"
)

type TokenHandler struct {
	tokens *services.TokenService
	cfg    *config.Config
}

func NewTokenHandler(tokens *services.TokenService, cfg *config.Config) *TokenHandler {
	return &TokenHandler{tokens: tokens, cfg: cfg}
}

// Issue handles POST /jwt. The body is taken as the token's claims.
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	claims := map[string]interface{}{}
	if err := c.BodyParser(&claims); err != nil {
		return badRequest(c, "Invalid request body")
	}

	token, err := h.tokens.Issue(claims)
	if err != nil {
		if errors.Is(err, services.ErrEmailClaimRequired) {
			return badRequest(c, err.Error())
		}
		return storeFailure(c, "issue_token", err)
	}
	return c.JSON(dto.TokenResponse{Token: token})
}

// Revoke handles POST /jwt/revoke: the presented token stops verifying
// immediately instead of at its expiry.
func (h *TokenHandler) Revoke(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized access",
		})
	}
	if err := h.tokens.Revoke(c.UserContext(), claims); err != nil {
		return storeFailure(c, "revoke_token", err)
	}
	return c.JSON(dto.RevokeResponse{Revoked: true, ExpiresAt: claims.ExpiresAt})
}

// Logout handles GET /logout. It only clears the cookie; a bearer token
// already held by the client stays valid until it expires or is revoked.
func (h *TokenHandler) Logout(c *fiber.Ctx) error {
	sameSite := fiber.CookieSameSiteStrictMode
	if h.cfg.IsProduction() {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   h.cfg.IsProduction(),
		HTTPOnly: true,
		SameSite: sameSite,
	})
	return c.JSON(dto.LogoutResponse{Success: true})
}
