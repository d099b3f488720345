package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/handler"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/middleware"
	"github.com/campus-portal/campus-api/internal/service"
)

type mockMembershipService struct {
	created      bool
	lastMember   string
	lastClubID   uint
	approveError error
}

func (m *mockMembershipService) Join(_ context.Context, _ identity.Principal, clubID uint) (dto.JoinResponse, bool, error) {
	m.lastClubID = clubID
	outcome := dto.JoinOutcomePending
	if m.created {
		outcome = dto.JoinOutcomeRequested
	}
	return dto.JoinResponse{ClubID: clubID, Outcome: outcome, Status: "pending", Role: "member"}, m.created, nil
}

func (m *mockMembershipService) Approve(_ context.Context, _ identity.Principal, clubID uint, member string) (dto.MemberResponse, error) {
	m.lastClubID = clubID
	m.lastMember = member
	return dto.MemberResponse{}, m.approveError
}

func (m *mockMembershipService) Leave(_ context.Context, _ identity.Principal, clubID uint) (dto.LeaveResponse, error) {
	return dto.LeaveResponse{ClubID: clubID}, nil
}

func (m *mockMembershipService) ListPending(_ context.Context, _ identity.Principal, _ uint) ([]dto.MemberResponse, error) {
	return nil, nil
}

func newClubApp(memberships service.MembershipService) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Identity(nil))
	handler.NewClubHandler(nil, memberships, zerolog.New(io.Discard)).Register(app.Group("/api/v1/clubs"))
	return app
}

func TestClubHandler_JoinStatusReflectsCreation(t *testing.T) {
	cases := []struct {
		created bool
		status  int
	}{
		{true, fiber.StatusCreated},
		{false, fiber.StatusOK},
	}

	for _, tc := range cases {
		svc := &mockMembershipService{created: tc.created}
		app := newClubApp(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/clubs/4/join", nil)
		req.Header.Set(middleware.HeaderUserEmail, "s@school.edu")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, tc.status, resp.StatusCode)
		require.Equal(t, uint(4), svc.lastClubID)
	}
}

func TestClubHandler_MemberRoutesRequireIdentity(t *testing.T) {
	svc := &mockMembershipService{}
	app := newClubApp(svc)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/clubs/mine"},
		{http.MethodPost, "/api/v1/clubs"},
		{http.MethodPost, "/api/v1/clubs/4/join"},
		{http.MethodPost, "/api/v1/clubs/4/leave"},
		{http.MethodGet, "/api/v1/clubs/4/members/pending"},
		{http.MethodPost, "/api/v1/clubs/4/members/a@school.edu/approve"},
		{http.MethodPost, "/api/v1/clubs/4/announcements"},
		{http.MethodPost, "/api/v1/clubs/4/events"},
	}
	for _, route := range routes {
		resp, err := app.Test(httptest.NewRequest(route.method, route.path, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, route.method+" "+route.path)
	}
	require.Zero(t, svc.lastClubID, "no service call for anonymous callers")
}

func TestClubHandler_ApproveMemberDecodesIdentity(t *testing.T) {
	svc := &mockMembershipService{}
	app := newClubApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clubs/2/members/jane%2Bclubs@school.edu/approve", nil)
	req.Header.Set(middleware.HeaderUserEmail, "leader@school.edu")
	req.Header.Set(middleware.HeaderUserRole, "leader")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "jane+clubs@school.edu", svc.lastMember)
	require.Equal(t, uint(2), svc.lastClubID)
}

func TestClubHandler_ApproveMemberMapsErrors(t *testing.T) {
	app := newClubApp(&mockMembershipService{approveError: service.ErrPendingMembershipNotFound})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clubs/2/members/s@school.edu/approve", nil)
	req.Header.Set(middleware.HeaderUserEmail, "leader@school.edu")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, "membership_not_found", decodeResponse(t, resp).Error.Reason)
}
