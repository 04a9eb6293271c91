package middlewares

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "sprout_backend/internals/helpers"
)

func newLimiter(max int, window time.Duration, message string, skip func(*fiber.Ctx) bool) fiber.Handler {
	return limiter.New(limiter.Config{
		Next:       skip,
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: every endpoint except webhooks and probes. Gateways
// retry from a small set of IPs and must never see a 429.
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(100, time.Minute, "Too many requests. Please try again later.", func(c *fiber.Ctx) bool {
		p := c.Path()
		return strings.HasPrefix(p, "/api/webhooks") || p == "/health" || p == "/metrics"
	})
}

// CheckoutRateLimiter is stricter; each call opens a session at the gateway.
func CheckoutRateLimiter() fiber.Handler {
	return newLimiter(10, time.Minute, "Too many checkout attempts. Please wait a minute.", nil)
}

// Onboarding creates accounts at the gateway.
func OnboardingRateLimiter() fiber.Handler {
	return newLimiter(5, 5*time.Minute, "Too many onboarding attempts. Please try again in a few minutes.", nil)
}
