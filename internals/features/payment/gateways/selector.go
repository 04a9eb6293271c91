package gateways

import (
	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/creators/profiles/model"
)

type Selection struct {
	Gateway   Name
	AccountID string
}

// Select picks the gateway that handles a creator's donations.
// Stripe wins whenever payment_gateway says so or a Stripe account exists,
// even if a Razorpay account is also on file.
func Select(p *model.CreatorProfile) (Selection, error) {
	switch {
	case p.PrefersGateway(model.GatewayStripe) || p.HasStripeAccount():
		return Selection{Gateway: Stripe, AccountID: model.Str(p.StripeAccountID)}, nil
	case p.HasRazorpayAccount():
		return Selection{Gateway: Razorpay, AccountID: model.Str(p.RazorpayAccountID)}, nil
	}
	return Selection{}, apperrors.NoPayoutConfigured("Creator hasn't set up payouts yet")
}

// SelectGateway resolves a checkout forced onto one gateway. The creator
// must hold an account on that gateway.
func SelectGateway(p *model.CreatorProfile, name Name) (Selection, error) {
	switch name {
	case Stripe:
		if p.HasStripeAccount() {
			return Selection{Gateway: Stripe, AccountID: model.Str(p.StripeAccountID)}, nil
		}
		return Selection{}, apperrors.NoPayoutConfigured("Creator hasn't connected Stripe yet")
	case Razorpay:
		if p.HasRazorpayAccount() {
			return Selection{Gateway: Razorpay, AccountID: model.Str(p.RazorpayAccountID)}, nil
		}
		return Selection{}, apperrors.NoPayoutConfigured("Creator hasn't connected Razorpay yet")
	}
	return Selection{}, apperrors.Validation("unknown payment gateway")
}

// Ready reports whether the selection can be charged.
func (s Selection) Ready() error {
	if s.AccountID != "" {
		return nil
	}
	if s.Gateway == Stripe {
		return apperrors.NoPayoutConfigured("Creator hasn't connected Stripe yet")
	}
	return apperrors.NoPayoutConfigured("Creator hasn't set up payouts yet")
}
