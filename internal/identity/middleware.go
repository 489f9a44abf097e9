package identity

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

const principalKey = "identity_principal"

// Middleware authenticates requests by Basic credentials looked up against
// the user collection on every call. There are no sessions or tokens.
type Middleware struct {
	provider *Provider
}

// NewMiddleware constructs middleware over the provider.
func NewMiddleware(provider *Provider) *Middleware {
	return &Middleware{provider: provider}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewDomainError(util.CodeUnauthorized, "missing authorization header", fiber.StatusUnauthorized, nil)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Basic") {
		return util.NewDomainError(util.CodeUnauthorized, "invalid authorization header", fiber.StatusUnauthorized, nil)
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return util.NewDomainError(util.CodeUnauthorized, "invalid authorization header", fiber.StatusUnauthorized, nil)
	}
	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return util.NewDomainError(util.CodeUnauthorized, "invalid authorization header", fiber.StatusUnauthorized, nil)
	}

	principal, err := m.provider.Authenticate(c.UserContext(), username, password)
	if err != nil {
		return err
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}
