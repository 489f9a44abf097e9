package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/school-kit/helpdesk-service/internal/api/dto"
	"github.com/school-kit/helpdesk-service/internal/identity"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// AuthHandler exposes the credential lookup.
type AuthHandler struct {
	provider *identity.Provider
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(provider *identity.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// Login POST /auth/login. Returns the role-tagged principal; callers keep
// supplying credentials per request, there are no sessions.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	principal, err := h.provider.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": principal})
}
