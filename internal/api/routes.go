package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"pressfolio/internal/aggregator"
	"pressfolio/internal/config"
	"pressfolio/internal/middleware"
)

// SetupRoutes configures the ops-API routes.
func SetupRoutes(app *fiber.App, agg *aggregator.Aggregator, trigger chan<- struct{}, cfg *config.Config) {
	handlers := NewHandlers(agg, trigger)

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	api := app.Group("/api/v1")
	api.Get("/health", handlers.HealthCheck)

	runs := api.Group("/runs")
	runs.Get("/last", handlers.LastRun)
	runs.Post("", middleware.AdminOnly(cfg.AdminAPIKey), handlers.TriggerRun)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
