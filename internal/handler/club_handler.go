package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/middleware"
	"github.com/campus-portal/campus-api/internal/service"
	"github.com/campus-portal/campus-api/internal/utils"
)

// ClubHandler exposes the club directory, memberships and announcements.
type ClubHandler struct {
	clubs       service.ClubService
	memberships service.MembershipService
	logger      zerolog.Logger
}

// NewClubHandler constructs a club handler.
func NewClubHandler(clubs service.ClubService, memberships service.MembershipService, logger zerolog.Logger) *ClubHandler {
	return &ClubHandler{
		clubs:       clubs,
		memberships: memberships,
		logger:      logger.With().Str("component", "club_handler").Logger(),
	}
}

// Register wires club routes.
func (h *ClubHandler) Register(router fiber.Router) {
	member := middleware.AuthOptions{RequireUser: true}

	router.Get("", h.list)
	router.Get("/mine", middleware.WithAuth(h.mine, member))
	router.Post("", middleware.WithAuth(h.create, member))
	router.Get("/:id", h.detail)
	router.Post("/:id/join", middleware.WithAuth(h.join, member))
	router.Post("/:id/leave", middleware.WithAuth(h.leave, member))
	router.Get("/:id/members/pending", middleware.WithAuth(h.pendingMembers, member))
	router.Post("/:id/members/:identity/approve", middleware.WithAuth(h.approveMember, member))
	router.Get("/:id/announcements", h.announcements)
	router.Post("/:id/announcements", middleware.WithAuth(h.postAnnouncement, member))
	router.Post("/:id/events", middleware.WithAuth(h.createEvent, member))
}

func (h *ClubHandler) list(c *fiber.Ctx) error {
	req := dto.ClubListRequest{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	items, err := h.clubs.List(c.UserContext(), principalFromContext(c), req)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to list clubs")
		return utils.FailError(c, err)
	}
	return utils.OK(c, items, "clubs retrieved", fiber.Map{"count": len(items)})
}

func (h *ClubHandler) mine(c *fiber.Ctx) error {
	items, err := h.clubs.ListMine(c.UserContext(), principalFromContext(c))
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to list memberships")
		return utils.FailError(c, err)
	}
	return utils.OK(c, items, "clubs retrieved", fiber.Map{"count": len(items)})
}

func (h *ClubHandler) create(c *fiber.Ctx) error {
	var payload dto.ClubCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.FailError(c, errInvalidPayload)
	}

	club, err := h.clubs.Create(c.UserContext(), principalFromContext(c), payload)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to create club")
		return utils.FailError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "club submitted for approval", club)
}

func (h *ClubHandler) detail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}

	detail, err := h.clubs.Detail(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to load club")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "club retrieved", detail)
}

func (h *ClubHandler) join(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}

	result, created, err := h.memberships.Join(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to join club")
		return utils.FailError(c, err)
	}
	if created {
		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "membership requested", result)
	}
	return utils.SendSuccess(c, "membership unchanged", result)
}

func (h *ClubHandler) leave(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}

	result, err := h.memberships.Leave(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to leave club")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "left club", result)
}

func (h *ClubHandler) pendingMembers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}

	items, err := h.memberships.ListPending(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to list pending members")
		return utils.FailError(c, err)
	}
	return utils.OK(c, items, "pending members", fiber.Map{"count": len(items)})
}

func (h *ClubHandler) approveMember(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}
	member, err := url.PathUnescape(c.Params("identity"))
	if err != nil || member == "" {
		return utils.FailError(c, invalidParam("identity", "required"))
	}

	approved, err := h.memberships.Approve(c.UserContext(), principalFromContext(c), id, member)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to approve member")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "membership approved", approved)
}

func (h *ClubHandler) announcements(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}

	items, err := h.clubs.ListAnnouncements(c.UserContext(), id)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to list announcements")
		return utils.FailError(c, err)
	}
	return utils.OK(c, items, "announcements retrieved", fiber.Map{"count": len(items)})
}

func (h *ClubHandler) postAnnouncement(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}
	var payload dto.AnnouncementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.FailError(c, errInvalidPayload)
	}

	announcement, err := h.clubs.PostAnnouncement(c.UserContext(), principalFromContext(c), id, payload)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to post announcement")
		return utils.FailError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "announcement posted", announcement)
}

func (h *ClubHandler) createEvent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}
	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.FailError(c, errInvalidPayload)
	}

	event, err := h.clubs.CreateClubEvent(c.UserContext(), principalFromContext(c), id, payload)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to create club event")
		return utils.FailError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event created", event)
}
