package details

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sprout_backend/internals/features/payment/gateways"
	WebhookRoutes "sprout_backend/internals/features/payment/webhooks/route"
)

/* ===================== WEBHOOKS ===================== */
// Signed by the gateway, never by a user token.
func PaymentWebhookRoutes(r fiber.Router, db *gorm.DB, reg *gateways.Registry, log *slog.Logger) {
	WebhookRoutes.WebhookRoutes(r, db, reg, log)
}
