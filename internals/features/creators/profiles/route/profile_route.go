package route

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sprout_backend/internals/features/creators/profiles/controller"
	"sprout_backend/internals/features/creators/profiles/repository"
	"sprout_backend/internals/features/payment/gateways"
)

func ProfilePublicRoutes(r fiber.Router, db *gorm.DB, reg *gateways.Registry, log *slog.Logger) {
	ctrl := controller.NewProfileController(repository.NewProfileRepository(db), reg, log)

	r.Get("/creators/:username", ctrl.GetPublicProfile)
}

func ProfileUserRoutes(r fiber.Router, db *gorm.DB, reg *gateways.Registry, log *slog.Logger) {
	ctrl := controller.NewProfileController(repository.NewProfileRepository(db), reg, log)

	r.Get("/me", ctrl.GetMe)
	r.Post("/username", ctrl.ClaimUsername)
}
