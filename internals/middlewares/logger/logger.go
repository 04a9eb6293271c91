package logger

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LoggerMiddleware writes one structured line per request. Webhook and
// checkout failures are easy to trace by request_id.
func LoggerMiddleware(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"ip", c.IP(),
			"request_id", c.Locals("requestid"),
		}
		switch {
		case status >= 500:
			log.Error("request", append(attrs, "err", err)...)
		case status >= 400:
			log.Warn("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
		return err
	}
}
