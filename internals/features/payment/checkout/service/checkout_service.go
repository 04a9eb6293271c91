package service

import (
	"context"
	"fmt"
	"strings"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/configs"
	"sprout_backend/internals/features/creators/profiles/model"
	"sprout_backend/internals/features/payment/checkout/dto"
	"sprout_backend/internals/features/payment/fees"
	"sprout_backend/internals/features/payment/gateways"
	"sprout_backend/internals/metrics"
)

type ProfileFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.CreatorProfile, error)
}

type CheckoutService struct {
	Profiles       ProfileFinder
	Gateways       *gateways.Registry
	MinAmountCents int64
}

func NewCheckoutService(profiles ProfileFinder, reg *gateways.Registry, minAmount int64) *CheckoutService {
	if minAmount <= 0 {
		minAmount = configs.MinAmountCents
	}
	return &CheckoutService{Profiles: profiles, Gateways: reg, MinAmountCents: minAmount}
}

// Create validates req and opens a checkout with the creator's gateway.
// An empty forced name lets the selector decide. Nothing is persisted.
func (s *CheckoutService) Create(ctx context.Context, req dto.CheckoutRequest, forced gateways.Name, origin string) (*gateways.CheckoutResult, error) {
	res, gw, err := s.create(ctx, req, forced, origin)
	outcome := "created"
	if err != nil {
		outcome = apperrors.KindOf(err).String()
	}
	if gw == "" {
		gw = "unknown"
	}
	metrics.CheckoutsTotal.WithLabelValues(string(gw), outcome).Inc()
	return res, err
}

func (s *CheckoutService) create(ctx context.Context, req dto.CheckoutRequest, forced gateways.Name, origin string) (*gateways.CheckoutResult, gateways.Name, error) {
	if req.AmountCents < s.MinAmountCents {
		return nil, forced, apperrors.Validation(fmt.Sprintf("amountCents must be >= %d", s.MinAmountCents))
	}
	if req.AmountCents > fees.MaxAmountCents {
		return nil, forced, apperrors.Validation(fmt.Sprintf("amountCents must be <= %d", fees.MaxAmountCents))
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, forced, apperrors.Validation("username is required")
	}
	if req.CharityPercentage < 0 || req.CharityPercentage > 100 {
		return nil, forced, apperrors.Validation("charityPercentage must be between 0 and 100")
	}

	creator, err := s.Profiles.FindByUsername(ctx, username)
	if err != nil {
		return nil, forced, err
	}

	var sel gateways.Selection
	if forced != "" {
		sel, err = gateways.SelectGateway(creator, forced)
	} else {
		sel, err = gateways.Select(creator)
	}
	if err != nil {
		return nil, forced, err
	}
	if err := sel.Ready(); err != nil {
		return nil, sel.Gateway, err
	}

	gw, err := s.Gateways.Get(sel.Gateway)
	if err != nil {
		return nil, sel.Gateway, err
	}

	res, err := gw.CreateCheckout(ctx, gateways.CheckoutRequest{
		CreatorID:         creator.ID,
		Username:          model.Str(creator.Username),
		AccountID:         sel.AccountID,
		CharityPercentage: req.CharityPercentage,
		Split:             fees.SplitOf(req.AmountCents),
		Origin:            origin,
	})
	return res, sel.Gateway, err
}
