package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	apperrors "github.com/hrumbles/candidate-pipeline/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated recruiter.
type Principal struct {
	Actor domain.Actor
}

// OrganizationID returns the tenant every request of the principal is scoped to.
func (p *Principal) OrganizationID() string { return p.Actor.OrganizationID }

// AuthMiddleware validates bearer tokens.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{Actor: claims.Actor()})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated recruiter.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
