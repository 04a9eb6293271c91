package middlewares

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/matryer/is"
)

func TestCheckoutRateLimiter(t *testing.T) {
	is := is.New(t)
	app := fiber.New()
	app.Post("/checkout", CheckoutRateLimiter(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/checkout", nil))
		is.NoErr(err)
		is.Equal(resp.StatusCode, fiber.StatusOK)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/checkout", nil))
	is.NoErr(err)
	is.Equal(resp.StatusCode, fiber.StatusTooManyRequests)

	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	is.NoErr(json.Unmarshal(raw, &body))
	is.Equal(body["success"], false)
	is.Equal(body["error_code"], "RATE_LIMITED")
}

func TestGlobalRateLimiterSkipsWebhooks(t *testing.T) {
	is := is.New(t)
	app := fiber.New()
	app.Use(GlobalRateLimiter())
	app.Post("/api/webhooks/stripe", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 150; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/api/webhooks/stripe", nil))
		is.NoErr(err)
		is.Equal(resp.StatusCode, fiber.StatusOK)
	}
}
