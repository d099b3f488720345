package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/service"
	"github.com/campus-portal/campus-api/internal/utils"
)

// RegistrationHandler exposes the registration ledger. Routes expect an identified caller.
type RegistrationHandler struct {
	service service.RegistrationService
	logger  zerolog.Logger
}

// NewRegistrationHandler constructs a registration handler.
func NewRegistrationHandler(service service.RegistrationService, logger zerolog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
		logger:  logger.With().Str("component", "registration_handler").Logger(),
	}
}

// Register wires registration routes.
func (h *RegistrationHandler) Register(router fiber.Router) {
	router.Get("/mine", h.mine)
	router.Post("", h.register)
	router.Delete("/:eventId", h.unregister)
}

func (h *RegistrationHandler) register(c *fiber.Ctx) error {
	var payload dto.RegistrationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.FailError(c, errInvalidPayload)
	}

	registration, err := h.service.Register(c.UserContext(), principalFromContext(c), payload)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to register")
		return utils.FailError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registered", registration)
}

func (h *RegistrationHandler) unregister(c *fiber.Ctx) error {
	eventID, err := parseID(c, "eventId")
	if err != nil {
		return utils.FailError(c, err)
	}

	result, err := h.service.Unregister(c.UserContext(), principalFromContext(c), eventID)
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to unregister")
		return utils.FailError(c, err)
	}
	return utils.SendSuccess(c, "unregistered", result)
}

func (h *RegistrationHandler) mine(c *fiber.Ctx) error {
	items, err := h.service.ListMine(c.UserContext(), principalFromContext(c))
	if err != nil {
		logUnexpected(h.logger, c, err, "failed to list registrations")
		return utils.FailError(c, err)
	}
	return utils.OK(c, items, "registrations retrieved", fiber.Map{"count": len(items)})
}
