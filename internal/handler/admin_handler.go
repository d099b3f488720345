package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/service"
	"github.com/campus-portal/campus-api/internal/utils"
)

// AdminHandler exposes the moderation queue, review workflow and audit log.
type AdminHandler struct {
	moderation service.ModerationService
	review     service.AdminReviewService
	activity   service.ActivityService
	seed       service.SeedService
	logger     zerolog.Logger
}

// NewAdminHandler constructs the admin handler. seed may be nil.
func NewAdminHandler(
	moderation service.ModerationService,
	review service.AdminReviewService,
	activity service.ActivityService,
	seed service.SeedService,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		moderation: moderation,
		review:     review,
		activity:   activity,
		seed:       seed,
		logger:     logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires admin routes. The router group is expected to enforce the admin role.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/flags", h.listFlags)
	router.Post("/flags/:id/resolve", h.resolveFlag)
	router.Get("/clubs/pending", h.pendingClubs)
	router.Post("/clubs/:id/approve", h.approveClub)
	router.Get("/leaders/pending", h.pendingLeaders)
	router.Post("/leaders/:identity/approve", h.approveLeader)
	router.Get("/activity", h.listActivity)
	if h.seed != nil {
		router.Post("/seed", h.runSeed)
	}
}

func (h *AdminHandler) listFlags(c *fiber.Ctx) error {
	includeResolved, err := parseQueryBool(c, "include_resolved")
	if err != nil {
		return utils.FailError(c, err)
	}

	items, err := h.moderation.List(c.UserContext(), principalFromContext(c), dto.FlagListRequest{
		IncludeResolved: includeResolved,
		ItemType:        c.Query("item_type"),
	})
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to list flags")
		return utils.FailError(c, err)
	}
	return utils.OK(c, items, "flags retrieved", fiber.Map{"count": len(items)})
}

func (h *AdminHandler) resolveFlag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}

	flag, err := h.moderation.Resolve(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to resolve flag")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "flag resolved", flag)
}

func (h *AdminHandler) pendingClubs(c *fiber.Ctx) error {
	items, err := h.review.PendingClubs(c.UserContext(), principalFromContext(c))
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to list pending clubs")
		return utils.FailError(c, err)
	}
	return utils.OK(c, items, "pending clubs", fiber.Map{"count": len(items)})
}

func (h *AdminHandler) approveClub(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.FailError(c, err)
	}

	result, err := h.review.ApproveClub(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to approve club")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "club approved", result)
}

func (h *AdminHandler) pendingLeaders(c *fiber.Ctx) error {
	items, err := h.review.PendingLeaders(c.UserContext(), principalFromContext(c))
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to list pending leaders")
		return utils.FailError(c, err)
	}
	return utils.OK(c, items, "pending leaders", fiber.Map{"count": len(items)})
}

func (h *AdminHandler) approveLeader(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("identity"))
	if err != nil || email == "" {
		return utils.FailError(c, invalidParam("identity", "required"))
	}

	result, err := h.review.ApproveLeader(c.UserContext(), principalFromContext(c), email)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to approve leader")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "leader approved", result)
}

func (h *AdminHandler) listActivity(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.FailError(c, err)
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.FailError(c, err)
	}
	if pageSize <= 0 {
		pageSize = 25
	} else if pageSize > 200 {
		pageSize = 200
	}

	var entityID *uint
	if raw, err := parseQueryInt(c, "entity_id"); err != nil {
		return utils.FailError(c, err)
	} else if raw > 0 {
		id := uint(raw)
		entityID = &id
	}
	since, err := parseQueryTime(c, "since")
	if err != nil {
		return utils.FailError(c, err)
	}

	response, err := h.activity.List(c.UserContext(), principalFromContext(c), dto.AdminActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		Actor:      c.Query("actor"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		EntityID:   entityID,
		Since:      since,
	})
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to list activity logs")
		return utils.FailError(c, err)
	}
	return utils.OK(c, response.Items, "activity logs", response.Pagination)
}

func (h *AdminHandler) runSeed(c *fiber.Ctx) error {
	report, err := h.seed.Run(c.UserContext(), principalFromContext(c))
	if err != nil {
		logUnexpected(h.logger, c, err, "seed operation failed")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "demo data seeded", report)
}
