package route

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sprout_backend/internals/features/payment/payouts/controller"
	"sprout_backend/internals/features/payment/payouts/repository"
)

func PayoutUserRoutes(r fiber.Router, db *gorm.DB, log *slog.Logger) {
	ctrl := controller.NewPayoutController(repository.NewPayoutRepository(db), log)

	r.Get("/payouts", ctrl.GetMyPayouts)
}
