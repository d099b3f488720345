package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/utils"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role        identity.Role
	RequireUser bool
}

// WithAuth wraps a single handler with an identity guard and an optional role
// guard. A role implies RequireUser.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	requireUser := opts.RequireUser || opts.Role != ""

	return func(c *fiber.Ctx) error {
		principal := PrincipalFrom(c)
		if requireUser {
			if err := identity.RequireAuthenticated(principal); err != nil {
				return utils.FailError(c, err)
			}
		}

		if opts.Role != "" && principal.Role != opts.Role && !principal.IsAdmin() {
			return utils.FailError(c, errInsufficientRole)
		}

		return handler(c)
	}
}
