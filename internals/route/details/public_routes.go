package details

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sprout_backend/internals/configs"
	ProfileRoutes "sprout_backend/internals/features/creators/profiles/route"
	CheckoutRoutes "sprout_backend/internals/features/payment/checkout/route"
	"sprout_backend/internals/features/payment/gateways"
)

/* ===================== PUBLIC ===================== */
// No token. Example: /api/public/creators/alice
func PaymentPublicRoutes(r fiber.Router, db *gorm.DB, reg *gateways.Registry, cfg *configs.Config, log *slog.Logger) {
	ProfileRoutes.ProfilePublicRoutes(r, db, reg, log)
	CheckoutRoutes.CheckoutPublicRoutes(r, db, reg, cfg, log)
}
