package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/school-kit/helpdesk-service/internal/api/dto"
	"github.com/school-kit/helpdesk-service/internal/identity"
	"github.com/school-kit/helpdesk-service/internal/service"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// UsersHandler manages account endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Create POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	principal, ok := identity.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.Create(c.UserContext(), principal, service.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": user.Principal()})
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principals, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": principals})
}

// Admins GET /users/admins. Feeds assignment target pickers.
func (h *UsersHandler) Admins(c *fiber.Ctx) error {
	principals, err := h.service.Admins(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": principals})
}
