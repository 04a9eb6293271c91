package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/matryer/is"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/creators/profiles/model"
	"sprout_backend/internals/features/payment/checkout/dto"
	"sprout_backend/internals/features/payment/fees"
	"sprout_backend/internals/features/payment/gateways"
)

type fakeProfiles map[string]*model.CreatorProfile

func (f fakeProfiles) FindByUsername(_ context.Context, username string) (*model.CreatorProfile, error) {
	if p, ok := f[username]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("Creator not found")
}

type fakeGateway struct {
	name   gateways.Name
	calls  []gateways.CheckoutRequest
	result *gateways.CheckoutResult
	err    error
}

func (g *fakeGateway) Name() gateways.Name { return g.name }

func (g *fakeGateway) CreateCheckout(_ context.Context, req gateways.CheckoutRequest) (*gateways.CheckoutResult, error) {
	g.calls = append(g.calls, req)
	return g.result, g.err
}

func (g *fakeGateway) VerifyWebhook([]byte, string) error { return nil }

func (g *fakeGateway) ParseCompletedPayment([]byte) (*gateways.WebhookEvent, error) {
	return &gateways.WebhookEvent{}, nil
}

func (g *fakeGateway) QueuesManualPayouts() bool { return g.name == gateways.Stripe }
func (g *fakeGateway) SignatureHeader() string   { return "X-Test-Signature" }

func sp(s string) *string { return &s }

var (
	stripeCreator = &model.CreatorProfile{
		ID:              uuid.MustParse("0d3b3f4e-5b8e-4a59-a6a9-8f4a8c0c7a11"),
		Username:        sp("alice"),
		StripeAccountID: sp("acct_alice"),
	}
	razorpayCreator = &model.CreatorProfile{
		ID:                uuid.MustParse("4a0e2f4b-3f44-4d5c-b0d9-2e54a4b9a6f2"),
		Username:          sp("ravi"),
		RazorpayAccountID: sp("acc_ravi"),
	}
	bothCreator = &model.CreatorProfile{
		ID:                uuid.MustParse("9b6a2f7c-18f3-4a8a-8f3e-6c2a6f1b2d33"),
		Username:          sp("both"),
		StripeAccountID:   sp("acct_both"),
		RazorpayAccountID: sp("acc_both"),
	}
	preferStripeNoAccount = &model.CreatorProfile{
		ID:                uuid.MustParse("c1f5b6a2-7e3d-4c55-9a41-0f3d5e6a7b88"),
		Username:          sp("half"),
		PaymentGateway:    sp("stripe"),
		RazorpayAccountID: sp("acc_half"),
	}
	noPayout = &model.CreatorProfile{
		ID:       uuid.MustParse("f2a8c3d4-1b5e-4f6a-8c7d-9e0a1b2c3d44"),
		Username: sp("newbie"),
	}
)

func newService() (*CheckoutService, *fakeGateway, *fakeGateway) {
	st := &fakeGateway{name: gateways.Stripe, result: &gateways.CheckoutResult{Gateway: gateways.Stripe, URL: "https://pay.example/s"}}
	rz := &fakeGateway{name: gateways.Razorpay, result: &gateways.CheckoutResult{Gateway: gateways.Razorpay, OrderID: "order_1"}}
	profiles := fakeProfiles{
		"alice":  stripeCreator,
		"ravi":   razorpayCreator,
		"both":   bothCreator,
		"half":   preferStripeNoAccount,
		"newbie": noPayout,
	}
	return NewCheckoutService(profiles, gateways.NewRegistry(st, rz), 0), st, rz
}

func TestCheckoutAmountFloor(t *testing.T) {
	is := is.New(t)
	svc, st, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CheckoutRequest{AmountCents: 49, Username: "alice"}, "", "https://sprout.example")
	is.True(errors.Is(err, apperrors.ErrValidation))
	is.Equal(len(st.calls), 0)

	res, err := svc.Create(ctx, dto.CheckoutRequest{AmountCents: 50, Username: "alice"}, "", "https://sprout.example")
	is.NoErr(err)
	is.Equal(res.URL, "https://pay.example/s")
	is.Equal(len(st.calls), 1)
	is.Equal(st.calls[0].Split.PlatformFee, int64(1))
	is.Equal(st.calls[0].Split.CreatorShare, int64(49))

	// the ceiling itself is accepted and splits without overflow
	_, err = svc.Create(ctx, dto.CheckoutRequest{AmountCents: fees.MaxAmountCents, Username: "alice"}, "", "https://sprout.example")
	is.NoErr(err)
	split := st.calls[1].Split
	is.True(split.PlatformFee > 0)
	is.True(split.CreatorShare < split.Gross)
	is.Equal(split.PlatformFee+split.CreatorShare, split.Gross)
}

func TestCheckoutValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CheckoutRequest
		want error
	}{
		{"amount checked before username", dto.CheckoutRequest{AmountCents: 0}, apperrors.ErrValidation},
		{"amount above split ceiling", dto.CheckoutRequest{AmountCents: 5e18, Username: "alice"}, apperrors.ErrValidation},
		{"max int64 amount", dto.CheckoutRequest{AmountCents: math.MaxInt64, Username: "alice"}, apperrors.ErrValidation},
		{"blank username", dto.CheckoutRequest{AmountCents: 500, Username: "   "}, apperrors.ErrValidation},
		{"charity above 100", dto.CheckoutRequest{AmountCents: 500, Username: "alice", CharityPercentage: 101}, apperrors.ErrValidation},
		{"negative charity", dto.CheckoutRequest{AmountCents: 500, Username: "alice", CharityPercentage: -1}, apperrors.ErrValidation},
		{"unknown creator", dto.CheckoutRequest{AmountCents: 500, Username: "ghost"}, apperrors.ErrNotFound},
		{"no payout configured", dto.CheckoutRequest{AmountCents: 500, Username: "newbie"}, apperrors.ErrNoPayoutConfigured},
		{"stripe preferred without account", dto.CheckoutRequest{AmountCents: 500, Username: "half"}, apperrors.ErrNoPayoutConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			svc, st, rz := newService()
			_, err := svc.Create(context.Background(), tt.req, "", "")
			is.True(errors.Is(err, tt.want))
			// no gateway is contacted on a rejected request
			is.Equal(len(st.calls)+len(rz.calls), 0)
		})
	}
}

func TestCheckoutSelectsStripeWhenBothConfigured(t *testing.T) {
	is := is.New(t)
	svc, st, rz := newService()

	_, err := svc.Create(context.Background(), dto.CheckoutRequest{AmountCents: 10000, Username: "both", CharityPercentage: 10}, "", "https://sprout.example")
	is.NoErr(err)
	is.Equal(len(rz.calls), 0)
	is.Equal(len(st.calls), 1)

	got := st.calls[0]
	is.Equal(got.AccountID, "acct_both")
	is.Equal(got.CreatorID, bothCreator.ID)
	is.Equal(got.Username, "both")
	is.Equal(got.CharityPercentage, 10)
	is.Equal(got.Split.PlatformFee, int64(200))
	is.Equal(got.Split.CreatorShare, int64(9800))
	is.Equal(got.Origin, "https://sprout.example")
}

func TestCheckoutRazorpayCreator(t *testing.T) {
	is := is.New(t)
	svc, st, rz := newService()

	res, err := svc.Create(context.Background(), dto.CheckoutRequest{AmountCents: 50000, Username: "ravi"}, "", "")
	is.NoErr(err)
	is.Equal(res.OrderID, "order_1")
	is.Equal(len(st.calls), 0)
	is.Equal(rz.calls[0].AccountID, "acc_ravi")
}

func TestCheckoutForcedGateway(t *testing.T) {
	is := is.New(t)
	svc, st, rz := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CheckoutRequest{AmountCents: 500, Username: "both"}, gateways.Razorpay, "")
	is.NoErr(err)
	is.Equal(rz.calls[0].AccountID, "acc_both")

	_, err = svc.Create(ctx, dto.CheckoutRequest{AmountCents: 500, Username: "ravi"}, gateways.Stripe, "")
	is.True(errors.Is(err, apperrors.ErrNoPayoutConfigured))
	is.Equal(len(st.calls), 0)
}

func TestCheckoutGatewayNotConfigured(t *testing.T) {
	is := is.New(t)
	rz := &fakeGateway{name: gateways.Razorpay}
	svc := NewCheckoutService(fakeProfiles{"alice": stripeCreator}, gateways.NewRegistry(rz), 0)

	_, err := svc.Create(context.Background(), dto.CheckoutRequest{AmountCents: 500, Username: "alice"}, "", "")
	is.True(errors.Is(err, apperrors.ErrConfiguration))
	is.Equal(len(rz.calls), 0)
}

func TestCheckoutSurfacesGatewayErrors(t *testing.T) {
	is := is.New(t)
	svc, st, _ := newService()
	st.result = nil
	st.err = apperrors.Gateway(errors.New("Your card was declined"))

	_, err := svc.Create(context.Background(), dto.CheckoutRequest{AmountCents: 500, Username: "alice"}, "", "")
	is.True(errors.Is(err, apperrors.ErrGateway))
	is.Equal(apperrors.MessageOf(err), "Your card was declined")
}
