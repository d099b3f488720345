package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/middleware"
)

type stubResolver struct {
	approved bool
	err      error
	calls    int
	lastRole identity.Role
}

func (r *stubResolver) Resolve(ctx context.Context, email string, role identity.Role) (identity.Principal, error) {
	r.calls++
	r.lastRole = role
	if r.err != nil {
		return identity.Principal{}, r.err
	}
	return identity.Principal{Identity: email, Role: role, LeaderApproved: r.approved}, nil
}

func newIdentityApp(resolver middleware.PrincipalResolver, handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Identity(resolver))
	app.Get("/", handler)
	return app
}

func echoPrincipal(c *fiber.Ctx) error {
	p := middleware.PrincipalFrom(c)
	return c.JSON(fiber.Map{"identity": p.Identity, "role": p.Role, "leader_approved": p.LeaderApproved})
}

func TestIdentityResolvesHeaders(t *testing.T) {
	resolver := &stubResolver{approved: false}
	app := newIdentityApp(resolver, echoPrincipal)

	resp := perform(t, app, map[string]string{
		middleware.HeaderUserEmail: "  Leader@School.edu ",
		middleware.HeaderUserRole:  "LEADER",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"identity":"leader@school.edu","role":"leader","leader_approved":false}`, string(body))
	require.Equal(t, 1, resolver.calls)
}

func TestIdentityLeavesRoleUnclaimedWithoutHeader(t *testing.T) {
	resolver := &stubResolver{approved: true}
	app := newIdentityApp(resolver, echoPrincipal)

	resp := perform(t, app, map[string]string{middleware.HeaderUserEmail: "lead@school.edu"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, resolver.calls)
	require.Equal(t, identity.Role(""), resolver.lastRole)

	resp = perform(t, app, map[string]string{
		middleware.HeaderUserEmail: "lead@school.edu",
		middleware.HeaderUserRole:  "student",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, identity.RoleStudent, resolver.lastRole)
}

func TestIdentityAnonymousWithoutEmail(t *testing.T) {
	resolver := &stubResolver{}
	app := newIdentityApp(resolver, echoPrincipal)

	resp := perform(t, app, map[string]string{middleware.HeaderUserRole: "admin"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"identity":"","role":"","leader_approved":false}`, string(body))
	require.Zero(t, resolver.calls)
}

func TestIdentityRejectsUnknownRole(t *testing.T) {
	app := newIdentityApp(&stubResolver{}, echoPrincipal)

	resp := perform(t, app, map[string]string{
		middleware.HeaderUserEmail: "s@school.edu",
		middleware.HeaderUserRole:  "staff",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIdentityResolverFailureIsInternal(t *testing.T) {
	app := newIdentityApp(&stubResolver{err: errors.New("db down")}, echoPrincipal)

	resp := perform(t, app, map[string]string{middleware.HeaderUserEmail: "s@school.edu"})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestRequireIdentity(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.Identity(nil))
	app.Get("/", middleware.RequireIdentity(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	require.Equal(t, fiber.StatusUnauthorized, perform(t, app, nil).StatusCode)
	require.Equal(t, fiber.StatusNoContent, perform(t, app, map[string]string{middleware.HeaderUserEmail: "s@school.edu"}).StatusCode)
}

func TestWithAuthRole(t *testing.T) {
	handler := middleware.WithAuth(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	}, middleware.AuthOptions{Role: identity.RoleLeader})
	app := newIdentityApp(nil, handler)

	require.Equal(t, fiber.StatusUnauthorized, perform(t, app, nil).StatusCode)
	require.Equal(t, fiber.StatusForbidden, perform(t, app, map[string]string{middleware.HeaderUserEmail: "s@school.edu"}).StatusCode)
	require.Equal(t, fiber.StatusNoContent, perform(t, app, map[string]string{
		middleware.HeaderUserEmail: "l@school.edu",
		middleware.HeaderUserRole:  "leader",
	}).StatusCode)
	require.Equal(t, fiber.StatusNoContent, perform(t, app, map[string]string{
		middleware.HeaderUserEmail: "a@school.edu",
		middleware.HeaderUserRole:  "admin",
	}).StatusCode, "admins pass every role guard")
}

func TestWithAuthAllowsAnonymousWhenNotRequired(t *testing.T) {
	handler := middleware.WithAuth(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}, middleware.AuthOptions{})
	app := newIdentityApp(nil, handler)

	require.Equal(t, fiber.StatusOK, perform(t, app, nil).StatusCode)
}

func TestRateLimitKeysByIdentity(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.Identity(nil))
	app.Get("/", middleware.RateLimit("test", 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	first := map[string]string{middleware.HeaderUserEmail: "a@school.edu"}
	second := map[string]string{middleware.HeaderUserEmail: "b@school.edu"}
	require.Equal(t, fiber.StatusOK, perform(t, app, first).StatusCode)
	require.Equal(t, fiber.StatusTooManyRequests, perform(t, app, first).StatusCode)
	require.Equal(t, fiber.StatusOK, perform(t, app, second).StatusCode)
}

func TestCorrelationIDIsEchoed(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(middleware.CorrelationIDFromContext(c.UserContext()))
	})

	resp := perform(t, app, map[string]string{"X-Request-ID": "req-123"})
	require.Equal(t, "req-123", resp.Header.Get("X-Correlation-ID"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "req-123", string(body))

	generated := perform(t, app, nil)
	require.NotEmpty(t, generated.Header.Get("X-Correlation-ID"))

	oversized := perform(t, app, map[string]string{middleware.HeaderCorrelationID: strings.Repeat("x", 200)})
	require.Len(t, oversized.Header.Get(middleware.HeaderCorrelationID), 36)
}

func perform(t *testing.T, app *fiber.App, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
