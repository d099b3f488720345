package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/handler"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/middleware"
	"github.com/campus-portal/campus-api/internal/service"
)

type mockEventService struct {
	lastSearch    dto.EventSearchRequest
	lastLimit     int
	lastPrincipal identity.Principal
	items         []dto.EventResponse
	err           error
}

func (m *mockEventService) Create(_ context.Context, principal identity.Principal, req dto.EventCreateRequest) (dto.EventResponse, error) {
	m.lastPrincipal = principal
	if m.err != nil {
		return dto.EventResponse{}, m.err
	}
	return dto.EventResponse{ID: 7, Title: req.Title, StartsAt: req.StartsAt, Location: req.Location}, nil
}

func (m *mockEventService) Get(_ context.Context, id uint) (dto.EventResponse, error) {
	if m.err != nil {
		return dto.EventResponse{}, m.err
	}
	return dto.EventResponse{ID: id, Title: "Fair"}, nil
}

func (m *mockEventService) Delete(_ context.Context, principal identity.Principal, id uint) (dto.EventDeleteResponse, error) {
	m.lastPrincipal = principal
	return dto.EventDeleteResponse{ID: id}, m.err
}

func (m *mockEventService) Search(_ context.Context, req dto.EventSearchRequest) ([]dto.EventResponse, error) {
	m.lastSearch = req
	return m.items, m.err
}

func (m *mockEventService) Trending(_ context.Context, limit int) ([]dto.EventResponse, error) {
	m.lastLimit = limit
	return m.items, m.err
}

func newEventApp(svc service.EventService) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Identity(nil))
	handler.NewEventHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/events"))
	return app
}

type responseBody struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Meta    map[string]int    `json:"meta"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
	Error   struct {
		Kind   string `json:"kind"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func decodeResponse(t *testing.T, resp *http.Response) responseBody {
	t.Helper()
	defer resp.Body.Close()
	var body responseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestEventHandler_SearchParsesFilters(t *testing.T) {
	svc := &mockEventService{items: []dto.EventResponse{{ID: 1, Title: "Fair"}}}
	app := newEventApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?start=2026-01-01T00:00:00Z&category=tech&q=lab&free_only=true&upcoming=1&club_id=3&sort=popularity", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	require.True(t, body.Success)
	require.Equal(t, 1, body.Meta["count"])

	require.NotNil(t, svc.lastSearch.Start)
	require.True(t, svc.lastSearch.Start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Nil(t, svc.lastSearch.End)
	require.Equal(t, "tech", svc.lastSearch.Category)
	require.Equal(t, "lab", svc.lastSearch.Query)
	require.True(t, svc.lastSearch.FreeOnly)
	require.True(t, svc.lastSearch.Upcoming)
	require.Equal(t, uint(3), *svc.lastSearch.ClubID)
	require.Equal(t, "popularity", svc.lastSearch.Sort)
}

func TestEventHandler_SearchRejectsBadQuery(t *testing.T) {
	app := newEventApp(&mockEventService{})

	for _, query := range []string{"start=yesterday", "end=2026-13-01", "free_only=perhaps", "club_id=x"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events?"+query, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, query)

		body := decodeResponse(t, resp)
		require.Equal(t, "validation", body.Error.Kind)
		require.Len(t, body.Details, 1)
	}
}

func TestEventHandler_TrendingPassesLimit(t *testing.T) {
	svc := &mockEventService{}
	app := newEventApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/trending?limit=3", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 3, svc.lastLimit)
}

func TestEventHandler_CreateRequiresIdentity(t *testing.T) {
	svc := &mockEventService{}
	app := newEventApp(svc)

	payload := `{"title":"Fair","starts_at":"2026-05-01T10:00:00Z","location":"Quad"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set(middleware.HeaderUserEmail, "Host@School.edu")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "host@school.edu", svc.lastPrincipal.Identity)
	require.Equal(t, identity.RoleStudent, svc.lastPrincipal.Role)
}

func TestEventHandler_CreateRejectsMalformedJSON(t *testing.T) {
	app := newEventApp(&mockEventService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set(middleware.HeaderUserEmail, "host@school.edu")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid_payload", decodeResponse(t, resp).Error.Reason)
}

func TestEventHandler_MapsServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", service.ErrEventNotFound, fiber.StatusNotFound},
		{"untyped", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newEventApp(&mockEventService{err: tc.err})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/events/5", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
			require.False(t, decodeResponse(t, resp).Success)
		})
	}
}

func TestEventHandler_InvalidID(t *testing.T) {
	app := newEventApp(&mockEventService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/events/0", nil)
	req.Header.Set(middleware.HeaderUserEmail, "host@school.edu")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
