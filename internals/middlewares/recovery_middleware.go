package middlewares

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware turns a panic into a 500 and logs it with its stack.
func RecoveryMiddleware(log *slog.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error("panic recovered",
				"err", fmt.Sprint(e),
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.Locals("requestid"),
				"stack", string(debug.Stack()),
			)
		},
	})
}
