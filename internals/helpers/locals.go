package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalString returns a string local set by middleware, or "".
func LocalString(c *fiber.Ctx, key string) string {
	if s, ok := c.Locals(key).(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
