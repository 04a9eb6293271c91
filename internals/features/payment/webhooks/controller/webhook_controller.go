package controller

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/payment/gateways"
	"sprout_backend/internals/features/payment/webhooks/service"
	helper "sprout_backend/internals/helpers"
)

type WebhookController struct {
	Gateways *gateways.Registry
	Recorder *service.Recorder
	Log      *slog.Logger
}

func NewWebhookController(reg *gateways.Registry, rec *service.Recorder, log *slog.Logger) *WebhookController {
	return &WebhookController{Gateways: reg, Recorder: rec, Log: log}
}

// Handler returns the endpoint for one gateway. Signatures are checked
// against the raw request body, so it must not be parsed first.
func (ctrl *WebhookController) Handler(name gateways.Name) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gw, err := ctrl.Gateways.Get(name)
		if err != nil {
			ctrl.Log.Error("webhook for unconfigured gateway", "gateway", name)
			return helper.JsonAppError(c, err)
		}

		// fasthttp reuses the body buffer after the handler returns.
		payload := append([]byte(nil), c.Body()...)
		signature := c.Get(gw.SignatureHeader())

		_, err = ctrl.Recorder.Handle(c.UserContext(), gw, payload, signature)
		switch {
		case err == nil:
			return c.JSON(fiber.Map{"received": true})
		case apperrors.KindOf(err) == apperrors.KindSignature:
			ctrl.Log.Warn("webhook signature rejected", "gateway", name, "ip", c.IP(), "reason", apperrors.MessageOf(err))
			return helper.JsonAppError(c, err)
		case apperrors.KindOf(err) == apperrors.KindConfiguration:
			ctrl.Log.Error("webhook secret not configured", "gateway", name)
			return helper.JsonAppError(c, err)
		default:
			// Recorder already logged the cause; a 5xx makes the gateway retry.
			return helper.JsonError(c, fiber.StatusInternalServerError, "Webhook processing failed")
		}
	}
}
