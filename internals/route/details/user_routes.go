package details

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sprout_backend/internals/configs"
	OnboardingRoutes "sprout_backend/internals/features/creators/onboarding/route"
	ProfileRoutes "sprout_backend/internals/features/creators/profiles/route"
	DonationRoutes "sprout_backend/internals/features/payment/donations/route"
	"sprout_backend/internals/features/payment/gateways"
	PayoutRoutes "sprout_backend/internals/features/payment/payouts/route"
)

/* ===================== USER (PRIVATE) ===================== */
// Signed-in creator. Example: /api/u/donations
func CreatorUserRoutes(r fiber.Router, db *gorm.DB, reg *gateways.Registry, cfg *configs.Config, log *slog.Logger) {
	ProfileRoutes.ProfileUserRoutes(r, db, reg, log)
	OnboardingRoutes.OnboardingUserRoutes(r, db, cfg, log)
	DonationRoutes.DonationUserRoutes(r, db, cfg.Payment.RecentDonationsLimit, log)
	PayoutRoutes.PayoutUserRoutes(r, db, log)
}
