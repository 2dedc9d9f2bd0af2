package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pressfolio/internal/aggregator"
)

// Handlers serves the ops surface of the aggregator: health, the report of
// the last completed run, and a manual run trigger. The end-user content API
// lives elsewhere; this process only ingests.
type Handlers struct {
	aggregator *aggregator.Aggregator
	trigger    chan<- struct{}
}

func NewHandlers(agg *aggregator.Aggregator, trigger chan<- struct{}) *Handlers {
	return &Handlers{aggregator: agg, trigger: trigger}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// LastRun handles GET /api/v1/runs/last
func (h *Handlers) LastRun(c *fiber.Ctx) error {
	report := h.aggregator.LastReport()
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no completed runs yet",
		})
	}
	return c.JSON(report)
}

// TriggerRun handles POST /api/v1/runs. The run executes on the scheduler
// goroutine; a trigger while one is already queued is reported as a conflict.
func (h *Handlers) TriggerRun(c *fiber.Ctx) error {
	select {
	case h.trigger <- struct{}{}:
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "run scheduled",
		})
	default:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "a run is already pending",
		})
	}
}
