package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	apperrors "github.com/hrumbles/candidate-pipeline/pkg/util/errorutil"
)

// RequireRole ensures the principal has one of the allowed roles. With no
// roles given any authenticated recruiter passes.
func RequireRole(allowed ...domain.RecruiterRole) fiber.Handler {
	allowedSet := make(map[domain.RecruiterRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Actor.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
