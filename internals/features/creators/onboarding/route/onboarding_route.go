package route

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sprout_backend/internals/configs"
	"sprout_backend/internals/features/creators/onboarding/controller"
	"sprout_backend/internals/features/creators/onboarding/service"
	"sprout_backend/internals/features/creators/profiles/repository"
	"sprout_backend/internals/middlewares"
)

func OnboardingUserRoutes(r fiber.Router, db *gorm.DB, cfg *configs.Config, log *slog.Logger) {
	svc := service.NewOnboardingService(repository.NewProfileRepository(db), cfg, log)
	ctrl := controller.NewOnboardingController(svc)

	limit := middlewares.OnboardingRateLimiter()
	r.Post("/stripe/connect/onboard", limit, ctrl.OnboardStripe)
	r.Post("/razorpay/route/onboard", limit, ctrl.OnboardRazorpay)
}
