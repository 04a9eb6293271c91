package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware allows the configured frontend origins. A single "*" opens
// the API to any origin, in which case credentials are not allowed.
func CorsMiddleware(origins []string) fiber.Handler {
	allowAll := len(origins) == 1 && origins[0] == "*"
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: !allowAll,
	})
}
