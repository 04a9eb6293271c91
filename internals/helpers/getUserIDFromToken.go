package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sprout_backend/internals/apperrors"
)

// GetUserIDFromToken reads user_id set by the auth middleware.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	var raw string
	switch t := c.Locals("user_id").(type) {
	case uuid.UUID:
		if t != uuid.Nil {
			return t, nil
		}
	case string:
		raw = t
	case []byte:
		raw = string(t)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, apperrors.Unauthorized("Not signed in")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Unauthorized("Invalid user id in token")
	}
	return id, nil
}
