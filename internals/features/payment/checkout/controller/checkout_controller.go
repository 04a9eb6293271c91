package controller

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/payment/checkout/dto"
	"sprout_backend/internals/features/payment/checkout/service"
	"sprout_backend/internals/features/payment/gateways"
	helper "sprout_backend/internals/helpers"
)

type CheckoutController struct {
	Service        *service.CheckoutService
	SiteURL        string
	AllowedOrigins []string
	Log            *slog.Logger
}

func NewCheckoutController(svc *service.CheckoutService, siteURL string, allowed []string, log *slog.Logger) *CheckoutController {
	return &CheckoutController{Service: svc, SiteURL: siteURL, AllowedOrigins: allowed, Log: log}
}

// Handler serves a checkout endpoint. forced is empty for the generic
// endpoint, which lets the selector pick the gateway.
func (ctrl *CheckoutController) Handler(forced gateways.Name) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.CheckoutRequest
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}

		res, err := ctrl.Service.Create(c.UserContext(), req, forced, ctrl.returnOrigin(c.Get(fiber.HeaderOrigin)))
		if err != nil {
			switch apperrors.KindOf(err) {
			case apperrors.KindGateway, apperrors.KindConfiguration, apperrors.KindInternal:
				ctrl.Log.Error("checkout failed", "username", req.Username, "gateway", forced, "err", err)
			}
			return helper.JsonAppError(c, err)
		}
		return c.JSON(res)
	}
}

// returnOrigin picks where a hosted checkout sends the supporter back to.
// Unknown origins fall back to the site URL so checkout cannot be used as an
// open redirect.
func (ctrl *CheckoutController) returnOrigin(origin string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return ctrl.SiteURL
	}
	if strings.EqualFold(origin, ctrl.SiteURL) {
		return origin
	}
	for _, o := range ctrl.AllowedOrigins {
		if o == "*" || strings.EqualFold(strings.TrimRight(o, "/"), origin) {
			return origin
		}
	}
	return ctrl.SiteURL
}
