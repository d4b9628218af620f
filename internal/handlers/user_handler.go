package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /users.
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.GetAll(c.UserContext())
	if err != nil {
		return storeFailure(c, "list_users", err)
	}
	return c.JSON(users)
}

// Get handles GET /users/:email. An unknown email is a 200 with a null body.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.GetByEmail(c.UserContext(), emailParam(c))
	if errors.Is(err, services.ErrUserNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return storeFailure(c, "get_user", err)
	}
	return c.JSON(user)
}

// Upsert handles PUT /user.
func (h *UserHandler) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := h.users.Upsert(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailRequired) {
			return badRequest(c, err.Error())
		}
		return storeFailure(c, "upsert_user", err)
	}
	return c.JSON(res.User)
}

// Patch handles PATCH /users/:email.
func (h *UserHandler) Patch(c *fiber.Ctx) error {
	var req dto.PatchUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.users.PatchByEmail(c.UserContext(), emailParam(c), &req)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	case errors.Is(err, services.ErrNoChange):
		return badRequest(c, "No changes made to the user")
	case errors.Is(err, services.ErrInvalidRole):
		return badRequest(c, err.Error())
	case err != nil:
		return storeFailure(c, "patch_user", err)
	}
	return c.JSON(dto.UserUpdatedResponse{Message: "User updated successfully", User: user})
}

// SetRole handles PATCH /users/:id/role. Success is false when nothing changed.
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	var req dto.SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	changed, err := h.users.SetRoleByID(c.UserContext(), id, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			return badRequest(c, err.Error())
		}
		return storeFailure(c, "set_role", err)
	}
	return c.JSON(dto.SetRoleResponse{Success: changed})
}
