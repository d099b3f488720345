package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Correlation headers. The request ID header is accepted from proxies that do
// not forward X-Correlation-ID.
const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"
)

const (
	correlationLocal     = "correlation_id"
	maxCorrelationLength = 128
)

type correlationKey struct{}

// CorrelationID tags each request with an identifier, reusing a well-formed
// incoming one, and echoes it back on the response.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := incomingCorrelation(c)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(correlationLocal, id)
		c.Set(HeaderCorrelationID, id)
		c.SetUserContext(context.WithValue(c.UserContext(), correlationKey{}, id))

		return c.Next()
	}
}

func incomingCorrelation(c *fiber.Ctx) string {
	for _, header := range []string{HeaderCorrelationID, HeaderRequestID} {
		value := strings.TrimSpace(c.Get(header))
		if value != "" && len(value) <= maxCorrelationLength {
			return value
		}
	}
	return ""
}

// CorrelationIDFromContext returns the identifier stored by CorrelationID.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// GetCorrelationID returns the identifier of the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(correlationLocal).(string); ok {
		return id
	}
	return CorrelationIDFromContext(c.UserContext())
}
