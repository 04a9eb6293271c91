package controller

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"sprout_backend/internals/features/payment/donations/service"
	helper "sprout_backend/internals/helpers"
)

type DonationController struct {
	Ledger *service.Ledger
	Log    *slog.Logger
}

func NewDonationController(ledger *service.Ledger, log *slog.Logger) *DonationController {
	return &DonationController{Ledger: ledger, Log: log}
}

// GET /api/u/donations?limit=N
func (ctrl *DonationController) GetMyDonations(c *fiber.Ctx) error {
	creatorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	summary, err := ctrl.Ledger.Summary(c.UserContext(), creatorID, c.QueryInt("limit", 0))
	if err != nil {
		ctrl.Log.Error("donation summary failed", "creator_id", creatorID, "err", err)
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Donations fetched", summary)
}
