package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-portal/campus-api/internal/apperrors"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/utils"
)

// Identity headers set by the trusted upstream.
const (
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

const principalLocal = "principal"

var errInvalidRole = apperrors.New(apperrors.KindValidation, apperrors.ReasonInvalidRole, "unknown role").
	WithDetails(map[string]string{"x_user_role": "oneof"})

// PrincipalResolver hydrates the principal claimed by the request headers. An
// empty role means the request did not claim one.
type PrincipalResolver interface {
	Resolve(ctx context.Context, email string, role identity.Role) (identity.Principal, error)
}

// Identity reads the caller from the identity headers. Requests without an
// email stay anonymous; an unknown role is rejected with 400.
func Identity(resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := identity.NormalizeIdentity(c.Get(HeaderUserEmail))
		if email == "" {
			c.Locals(principalLocal, identity.Principal{})
			return c.Next()
		}

		claimed := strings.TrimSpace(c.Get(HeaderUserRole))
		role, ok := identity.ParseRole(claimed)
		if !ok {
			return utils.FailError(c, errInvalidRole)
		}

		principal := identity.Principal{Identity: email, Role: role, LeaderApproved: role != identity.RoleLeader}
		if resolver != nil {
			if claimed == "" {
				role = ""
			}
			resolved, err := resolver.Resolve(c.UserContext(), email, role)
			if err != nil {
				return utils.FailError(c, err)
			}
			principal = resolved
		}

		c.Locals(principalLocal, principal)
		return c.Next()
	}
}

// PrincipalFrom returns the principal bound to the request, or an anonymous one.
func PrincipalFrom(c *fiber.Ctx) identity.Principal {
	if c == nil {
		return identity.Principal{}
	}
	if principal, ok := c.Locals(principalLocal).(identity.Principal); ok {
		return principal
	}
	return identity.Principal{}
}

// RequireIdentity rejects anonymous callers with 401.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := identity.RequireAuthenticated(PrincipalFrom(c)); err != nil {
			return utils.FailError(c, err)
		}
		return c.Next()
	}
}
