package routes

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sprout_backend/internals/configs"
	"sprout_backend/internals/features/payment/gateways"
	authMiddleware "sprout_backend/internals/middlewares/auth"
	routeDetails "sprout_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, reg *gateways.Registry, cfg *configs.Config, log *slog.Logger) {
	startTime = time.Now()

	BaseRoutes(app, db, cfg)

	// ===================== GROUPS =====================
	log.Info("setting up route groups", "gateways", reg.Names())

	public := app.Group("/api/public")
	webhooks := app.Group("/api/webhooks")
	private := app.Group("/api/u", authMiddleware.AuthJWT(cfg.Auth.JWTSecret, log))

	// ===================== MOUNT ROUTES =====================
	routeDetails.PaymentPublicRoutes(public, db, reg, cfg, log)
	routeDetails.PaymentWebhookRoutes(webhooks, db, reg, log)
	routeDetails.CreatorUserRoutes(private, db, reg, cfg, log)
}
