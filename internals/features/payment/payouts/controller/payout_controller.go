package controller

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"sprout_backend/internals/features/payment/payouts/repository"
	helper "sprout_backend/internals/helpers"
)

type PayoutController struct {
	Repo *repository.PayoutRepository
	Log  *slog.Logger
}

func NewPayoutController(repo *repository.PayoutRepository, log *slog.Logger) *PayoutController {
	return &PayoutController{Repo: repo, Log: log}
}

// GET /api/u/payouts
func (ctrl *PayoutController) GetMyPayouts(c *fiber.Ctx) error {
	creatorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)

	rows, err := ctrl.Repo.ListByCreator(c.UserContext(), creatorID, p.Limit, p.Offset)
	if err != nil {
		ctrl.Log.Error("list payouts failed", "creator_id", creatorID, "err", err)
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Payouts fetched", rows)
}
