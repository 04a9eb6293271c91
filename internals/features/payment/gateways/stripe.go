package gateways

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/configs"
)

const StripeSignatureHeader = "Stripe-Signature"

// StripeSessionCreator is the slice of the Stripe SDK used for checkout.
type StripeSessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeGateway struct {
	sessions      StripeSessionCreator
	webhookSecret string
	currency      string
}

func NewStripeGateway(cfg configs.StripeConfig) *StripeGateway {
	return NewStripeGatewayWith(
		&session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.SecretKey},
		cfg.WebhookSecret,
		cfg.Currency,
	)
}

func NewStripeGatewayWith(sessions StripeSessionCreator, webhookSecret, currency string) *StripeGateway {
	if currency == "" {
		currency = "usd"
	}
	return &StripeGateway{sessions: sessions, webhookSecret: webhookSecret, currency: strings.ToLower(currency)}
}

func (g *StripeGateway) Name() Name                { return Stripe }
func (g *StripeGateway) QueuesManualPayouts() bool { return true }
func (g *StripeGateway) SignatureHeader() string   { return StripeSignatureHeader }

func (g *StripeGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if req.AccountID == "" {
		return nil, apperrors.NoPayoutConfigured("Creator hasn't connected Stripe yet")
	}
	amount := req.Split.Gross
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String("Support " + req.Username),
	}
	if req.CharityPercentage > 0 {
		product.Description = stripe.String(fmt.Sprintf("Includes %d%% for charity", req.CharityPercentage))
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(g.currency),
					ProductData: product,
					UnitAmount:  stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(req.Split.PlatformFee),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(req.AccountID),
			},
			Metadata: req.Metadata(),
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/%s?status=success", req.Origin, req.Username)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/%s?status=cancelled", req.Origin, req.Username)),
	}
	params.Context = ctx
	params.Metadata = req.Metadata()

	s, err := g.sessions.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Msg != "" {
			return nil, apperrors.Gateway(errors.New(se.Msg))
		}
		return nil, apperrors.Gateway(err)
	}
	return &CheckoutResult{Gateway: Stripe, URL: s.URL}, nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) error {
	if g.webhookSecret == "" {
		return apperrors.ErrMissingSecret
	}
	if strings.TrimSpace(signature) == "" {
		return apperrors.ErrMissingSignature
	}
	// Checks the timestamp tolerance and compares in constant time.
	if err := webhook.ValidatePayload(payload, signature, g.webhookSecret); err != nil {
		return apperrors.ErrInvalidSignature
	}
	return nil
}

func (g *StripeGateway) ParseCompletedPayment(payload []byte) (*WebhookEvent, error) {
	var ev stripe.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode stripe event: %w", err)
	}
	out := &WebhookEvent{ID: ev.ID, Type: string(ev.Type)}
	if ev.Type != stripe.EventTypeCheckoutSessionCompleted || ev.Data == nil {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	// Sessions without a payment intent or still unpaid settle later, if at all.
	if cs.PaymentIntent == nil || cs.PaymentIntent.ID == "" {
		return out, nil
	}
	if cs.PaymentStatus != "" && cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return out, nil
	}

	username, charity, creatorID := paymentFromMetadata(cs.Metadata)
	out.Payment = &CompletedPayment{
		Gateway:           Stripe,
		PaymentID:         cs.PaymentIntent.ID,
		AmountCents:       cs.AmountTotal,
		Currency:          string(cs.Currency),
		Username:          username,
		CharityPercentage: charity,
		CreatorID:         creatorID,
		Metadata:          cs.Metadata,
	}
	return out, nil
}
