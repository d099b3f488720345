package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-portal/campus-api/internal/apperrors"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/utils"
)

var errInsufficientRole = apperrors.Forbidden(apperrors.ReasonAdminRequired, "insufficient permissions")

// RequireRole ensures that the caller claims one of the allowed roles.
func RequireRole(roles ...identity.Role) fiber.Handler {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, role := range roles {
		if parsed, ok := identity.ParseRole(string(role)); ok {
			allowed[parsed] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		principal := PrincipalFrom(c)
		if err := identity.RequireAuthenticated(principal); err != nil {
			return utils.FailError(c, err)
		}
		if _, ok := allowed[principal.Role]; !ok {
			return utils.FailError(c, errInsufficientRole)
		}
		return c.Next()
	}
}
