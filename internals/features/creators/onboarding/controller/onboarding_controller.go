package controller

import (
	"github.com/gofiber/fiber/v2"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/creators/onboarding/service"
	helper "sprout_backend/internals/helpers"
)

type OnboardingController struct {
	Service *service.OnboardingService
}

func NewOnboardingController(svc *service.OnboardingService) *OnboardingController {
	return &OnboardingController{Service: svc}
}

// POST /api/u/stripe/connect/onboard
func (ctrl *OnboardingController) OnboardStripe(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	url, err := ctrl.Service.OnboardStripe(c.UserContext(), id)
	if err != nil {
		ctrl.logFailure("stripe", id.String(), err)
		return helper.JsonAppError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

// POST /api/u/razorpay/route/onboard
func (ctrl *OnboardingController) OnboardRazorpay(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	res, err := ctrl.Service.OnboardRazorpay(c.UserContext(), id)
	if err != nil {
		ctrl.logFailure("razorpay", id.String(), err)
		return helper.JsonAppError(c, err)
	}
	return c.JSON(res)
}

func (ctrl *OnboardingController) logFailure(gateway, creatorID string, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindNotFound:
		return
	}
	ctrl.Service.Log.Error("onboarding failed", "gateway", gateway, "creator_id", creatorID, "err", err)
}
