package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campus-portal/campus-api/internal/apperrors"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/middleware"
)

var errInvalidPayload = apperrors.New(apperrors.KindValidation, apperrors.ReasonInvalidPayload, "invalid payload")

func invalidParam(name, rule string) error {
	return apperrors.Validation("invalid " + name).WithDetails(map[string]string{name: rule})
}

func principalFromContext(c *fiber.Ctx) identity.Principal {
	return middleware.PrincipalFrom(c)
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params(param)), 10, 64)
	if err != nil || value == 0 {
		return 0, invalidParam(param, "min")
	}
	return uint(value), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalidParam(key, "numeric")
	}
	return parsed, nil
}

func parseQueryBool(c *fiber.Ctx, key string) (bool, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, invalidParam(key, "boolean")
	}
	return parsed, nil
}

func parseQueryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, invalidParam(key, "datetime")
	}
	return &parsed, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// logUnexpected records failures that are not typed domain errors before they become a 500.
func logUnexpected(base zerolog.Logger, c *fiber.Ctx, err error, msg string) {
	if _, ok := apperrors.As(err); ok {
		return
	}
	requestLogger(base, c).Error().Err(err).Str("path", c.Path()).Msg(msg)
}
