package gateways

import "sprout_backend/internals/configs"

// NewRegistryFromConfig registers a gateway for every provider whose API
// keys are present.
func NewRegistryFromConfig(cfg *configs.Config) *Registry {
	var gws []PaymentGateway
	if cfg.Stripe.Enabled() {
		gws = append(gws, NewStripeGateway(cfg.Stripe))
	}
	if cfg.Razorpay.Enabled() {
		gws = append(gws, NewRazorpayGateway(cfg.Razorpay))
	}
	return NewRegistry(gws...)
}
