package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/middleware"
	"github.com/campus-portal/campus-api/internal/service"
	"github.com/campus-portal/campus-api/internal/utils"
)

// EventHandler exposes the event registry.
type EventHandler struct {
	service service.EventService
	logger  zerolog.Logger
}

// NewEventHandler constructs an event handler.
func NewEventHandler(service service.EventService, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger.With().Str("component", "event_handler").Logger(),
	}
}

// Register wires event routes.
func (h *EventHandler) Register(router fiber.Router) {
	member := middleware.AuthOptions{RequireUser: true}

	router.Get("", h.search)
	router.Get("/trending", h.trending)
	router.Get("/:id", h.get)
	router.Post("", middleware.WithAuth(h.create, member))
	router.Delete("/:id", middleware.WithAuth(h.delete, member))
}

func (h *EventHandler) search(c *fiber.Ctx) error {
	req, err := parseEventSearch(c)
	if err != nil {
		return utils.FailError(c, err)
	}

	items, err := h.service.Search(c.UserContext(), req)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to search events")
		return utils.FailError(c, err)
	}
	return utils.OK(c, items, "events retrieved", fiber.Map{"count": len(items)})
}

func (h *EventHandler) trending(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.FailError(c, err)
	}

	items, err := h.service.Trending(c.UserContext(), limit)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to load trending events")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "trending events", items)
}

func (h *EventHandler) get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}

	event, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to load event")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "event retrieved", event)
}

func (h *EventHandler) create(c *fiber.Ctx) error {
	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.FailError(c, errInvalidPayload)
	}

	event, err := h.service.Create(c.UserContext(), principalFromContext(c), payload)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to create event")
		return utils.FailError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event created", event)
}

func (h *EventHandler) delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}

	result, err := h.service.Delete(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to delete event")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "event deleted", result)
}

func parseEventSearch(c *fiber.Ctx) (dto.EventSearchRequest, error) {
	start, err := parseQueryTime(c, "start")
	if err != nil {
		return dto.EventSearchRequest{}, err
	}
	end, err := parseQueryTime(c, "end")
	if err != nil {
		return dto.EventSearchRequest{}, err
	}
	freeOnly, err := parseQueryBool(c, "free_only")
	if err != nil {
		return dto.EventSearchRequest{}, err
	}
	upcoming, err := parseQueryBool(c, "upcoming")
	if err != nil {
		return dto.EventSearchRequest{}, err
	}
	clubID, err := parseQueryInt(c, "club_id")
	if err != nil {
		return dto.EventSearchRequest{}, err
	}

	req := dto.EventSearchRequest{
		Start:    start,
		End:      end,
		Category: c.Query("category"),
		Title:    c.Query("title"),
		Location: c.Query("location"),
		Query:    c.Query("q"),
		FreeOnly: freeOnly,
		Upcoming: upcoming,
		Sort:     c.Query("sort"),
	}
	if clubID > 0 {
		id := uint(clubID)
		req.ClubID = &id
	}
	return req, nil
}
