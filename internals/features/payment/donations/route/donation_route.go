package route

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sprout_backend/internals/features/payment/donations/controller"
	"sprout_backend/internals/features/payment/donations/repository"
	"sprout_backend/internals/features/payment/donations/service"
)

// DonationUserRoutes mounts the creator's own ledger under an authenticated group.
func DonationUserRoutes(r fiber.Router, db *gorm.DB, recentLimit int, log *slog.Logger) {
	ledger := service.NewLedger(repository.NewDonationRepository(db), recentLimit)
	ctrl := controller.NewDonationController(ledger, log)

	r.Get("/donations", ctrl.GetMyDonations)
}
