package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/service"
	"github.com/campus-portal/campus-api/internal/utils"
)

// FlagHandler accepts moderation reports from any identified caller.
type FlagHandler struct {
	service service.ModerationService
	logger  zerolog.Logger
}

// NewFlagHandler constructs a flag handler.
func NewFlagHandler(service service.ModerationService, logger zerolog.Logger) *FlagHandler {
	return &FlagHandler{
		service: service,
		logger:  logger.With().Str("component", "flag_handler").Logger(),
	}
}

// Register wires flag routes.
func (h *FlagHandler) Register(router fiber.Router) {
	router.Post("", h.create)
}

func (h *FlagHandler) create(c *fiber.Ctx) error {
	var payload dto.FlagCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.FailError(c, errInvalidPayload)
	}

	flag, err := h.service.Flag(c.UserContext(), principalFromContext(c), payload)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to flag item")
		return utils.FailError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "item flagged", flag)
}
