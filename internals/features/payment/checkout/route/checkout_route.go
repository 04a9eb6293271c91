package route

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sprout_backend/internals/configs"
	profileRepo "sprout_backend/internals/features/creators/profiles/repository"
	"sprout_backend/internals/features/payment/checkout/controller"
	"sprout_backend/internals/features/payment/checkout/service"
	"sprout_backend/internals/features/payment/gateways"
	"sprout_backend/internals/middlewares"
)

// CheckoutPublicRoutes mounts the supporter-facing checkout endpoints.
func CheckoutPublicRoutes(r fiber.Router, db *gorm.DB, reg *gateways.Registry, cfg *configs.Config, log *slog.Logger) {
	svc := service.NewCheckoutService(profileRepo.NewProfileRepository(db), reg, cfg.Payment.MinAmountCents)
	ctrl := controller.NewCheckoutController(svc, cfg.App.SiteURL, cfg.App.AllowedOrigins, log)

	limit := middlewares.CheckoutRateLimiter()
	r.Post("/checkout", limit, ctrl.Handler(""))
	r.Post("/stripe/checkout", limit, ctrl.Handler(gateways.Stripe))
	r.Post("/razorpay/checkout", limit, ctrl.Handler(gateways.Razorpay))
}
