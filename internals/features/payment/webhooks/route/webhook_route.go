package route

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sprout_backend/internals/features/payment/gateways"
	"sprout_backend/internals/features/payment/webhooks/controller"
	"sprout_backend/internals/features/payment/webhooks/service"
)

// WebhookRoutes mounts one endpoint per gateway under /api/webhooks.
func WebhookRoutes(r fiber.Router, db *gorm.DB, reg *gateways.Registry, log *slog.Logger) {
	ctrl := controller.NewWebhookController(reg, service.NewRecorder(db, log), log)

	r.Post("/stripe", ctrl.Handler(gateways.Stripe))
	r.Post("/razorpay", ctrl.Handler(gateways.Razorpay))
}
