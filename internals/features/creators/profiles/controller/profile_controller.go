package controller

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/creators/profiles/dto"
	"sprout_backend/internals/features/creators/profiles/repository"
	"sprout_backend/internals/features/payment/gateways"
	helper "sprout_backend/internals/helpers"
)

var validate = validator.New()

type ProfileController struct {
	Repo     *repository.ProfileRepository
	Gateways *gateways.Registry
	Log      *slog.Logger
}

func NewProfileController(repo *repository.ProfileRepository, reg *gateways.Registry, log *slog.Logger) *ProfileController {
	return &ProfileController{Repo: repo, Gateways: reg, Log: log}
}

// GET /api/public/creators/:username
func (ctrl *ProfileController) GetPublicProfile(c *fiber.Ctx) error {
	p, err := ctrl.Repo.FindByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			ctrl.Log.Error("load creator failed", "username", c.Params("username"), "err", err)
		}
		return helper.JsonAppError(c, err)
	}

	gateway, accepts := "", false
	if sel, err := gateways.Select(p); err == nil {
		gateway = string(sel.Gateway)
		if sel.Ready() == nil {
			_, err := ctrl.Gateways.Get(sel.Gateway)
			accepts = err == nil
		}
	}
	return helper.JsonOK(c, "Creator fetched", dto.ToPublicProfile(p, gateway, accepts))
}

// GET /api/u/me
// The row is created on the first authenticated call.
func (ctrl *ProfileController) GetMe(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	p, err := ctrl.Repo.EnsureExists(c.UserContext(), repository.Identity{
		ID:          id,
		Email:       helper.LocalString(c, "user_email"),
		DisplayName: helper.LocalString(c, "user_name"),
		AvatarURL:   helper.LocalString(c, "user_avatar_url"),
	})
	if err != nil {
		ctrl.Log.Error("ensure creator failed", "user_id", id, "err", err)
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Profile fetched", dto.ToMeResponse(p))
}

// POST /api/u/username
func (ctrl *ProfileController) ClaimUsername(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req dto.ClaimUsernameRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, "username is required", map[string][]string{"username": {"required"}})
	}

	p, err := ctrl.Repo.ClaimUsername(c.UserContext(), id, req.Username)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			ctrl.Log.Error("claim username failed", "user_id", id, "err", err)
		}
		return helper.JsonAppError(c, err)
	}
	ctrl.Log.Info("username claimed", "user_id", id, "username", *p.Username)
	return helper.JsonOK(c, "Username claimed", dto.ToMeResponse(p))
}
