package handler

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/campus-portal/campus-api/internal/config"
	"github.com/campus-portal/campus-api/internal/utils"
)

const healthProbeTimeout = 2 * time.Second

// Health statuses. A failing optional dependency degrades the service; a
// failing required one makes it unavailable.
const (
	HealthOK          = "ok"
	HealthDegraded    = "degraded"
	HealthUnavailable = "unavailable"
)

// HealthProbe checks one backing dependency.
type HealthProbe struct {
	Name     string
	Required bool
	Check    func(ctx context.Context) error
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Environment  string            `json:"environment"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthCheck reports service health. Probes run concurrently and share one
// deadline.
func HealthCheck(cfg config.Config, probes ...HealthProbe) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      HealthOK,
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		if len(probes) > 0 {
			payload.Dependencies, payload.Status = runProbes(c.UserContext(), probes)
		}

		if payload.Status == HealthUnavailable {
			return utils.Fail(c, fiber.StatusServiceUnavailable, "service unavailable", payload.Dependencies)
		}
		return utils.SendSuccess(c, "service healthy", payload)
	}
}

func runProbes(ctx context.Context, probes []HealthProbe) (map[string]string, string) {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		group   errgroup.Group
		results = make(map[string]string, len(probes))
		status  = HealthOK
	)
	for _, probe := range probes {
		group.Go(func() error {
			result := HealthOK
			if err := probe.Check(ctx); err != nil {
				result = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			results[probe.Name] = result
			switch {
			case result == HealthOK:
			case probe.Required:
				status = HealthUnavailable
			case status == HealthOK:
				status = HealthDegraded
			}
			return nil
		})
	}
	_ = group.Wait()

	return results, status
}
