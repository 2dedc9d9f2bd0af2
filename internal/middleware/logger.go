package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pressfolio/internal/logger"
)

// RequestLogger logs every ops-API request with zerolog.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		event := logger.Get().Info()
		if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
			event = logger.Get().Error().Err(err)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
		return err
	}
}
