package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-portal/campus-api/internal/apperrors"
)

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Meta    interface{}       `json:"meta,omitempty"`
	Message string            `json:"message"`
	Error   *ErrorBody        `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorBody carries the machine-readable classification of a failure.
type ErrorBody struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason,omitempty"`
}

// OK sends a 200 response with optional metadata.
func OK(c *fiber.Ctx, data interface{}, message string, meta interface{}) error {
	if message == "" {
		message = "success"
	}
	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
		Message: message,
	})
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	return Fail(c, status, message, nil)
}

// Fail sends an error response with optional field details.
func Fail(c *fiber.Ctx, status int, message string, details map[string]string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
		Details: details,
	})
}

// FailError maps a typed domain error to its HTTP status and envelope.
// Untyped errors become a generic 500.
func FailError(c *fiber.Ctx, err error) error {
	appErr, ok := apperrors.As(err)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(APIResponse{
			Success: false,
			Message: "internal server error",
			Error:   &ErrorBody{Kind: string(apperrors.KindInternal)},
		})
	}

	return c.Status(StatusForKind(appErr.Kind)).JSON(APIResponse{
		Success: false,
		Message: appErr.Message,
		Error:   &ErrorBody{Kind: string(appErr.Kind), Reason: string(appErr.Reason)},
		Details: appErr.Details,
	})
}

// StatusForKind is the single mapping from failure kind to HTTP status.
func StatusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
