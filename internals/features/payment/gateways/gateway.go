// Package gateways puts Stripe and Razorpay behind one PaymentGateway
// capability so checkout and webhook code stay gateway-agnostic.
package gateways

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/payment/fees"
)

type Name string

const (
	Stripe   Name = "stripe"
	Razorpay Name = "razorpay"
)

func ParseName(s string) (Name, bool) {
	switch Name(strings.ToLower(strings.TrimSpace(s))) {
	case Stripe:
		return Stripe, true
	case Razorpay:
		return Razorpay, true
	}
	return "", false
}

// Metadata keys attached to every checkout and read back from webhooks.
const (
	MetaUsername          = "username"
	MetaCharityPercentage = "charity_percentage"
	MetaCreatorID         = "creator_id"
)

type CheckoutRequest struct {
	CreatorID         uuid.UUID
	Username          string
	AccountID         string
	CharityPercentage int
	Split             fees.Split
	// Origin is the site the supporter returns to after a hosted checkout.
	Origin string
}

func (r CheckoutRequest) Metadata() map[string]string {
	return map[string]string{
		MetaUsername:          r.Username,
		MetaCharityPercentage: strconv.Itoa(r.CharityPercentage),
		MetaCreatorID:         r.CreatorID.String(),
	}
}

// CheckoutResult is either a hosted redirect (URL) or an in-page order
// handle (OrderID, Amount, Currency, KeyID).
type CheckoutResult struct {
	Gateway  Name   `json:"gateway"`
	URL      string `json:"url,omitempty"`
	OrderID  string `json:"orderId,omitempty"`
	Amount   int64  `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
	KeyID    string `json:"keyId,omitempty"`
}

// CompletedPayment is a settled payment extracted from a verified webhook.
type CompletedPayment struct {
	Gateway           Name
	PaymentID         string
	AmountCents       int64
	Currency          string
	Username          string
	CharityPercentage int
	CreatorID         *uuid.UUID
	Metadata          map[string]string
}

// Recordable reports whether the payment carries enough to be booked.
func (p *CompletedPayment) Recordable() bool {
	return p != nil && p.AmountCents > 0 && p.CreatorID != nil && p.PaymentID != ""
}

// WebhookEvent is a verified notification. Payment is nil for event types
// that do not represent a completed payment.
type WebhookEvent struct {
	ID      string
	Type    string
	Payment *CompletedPayment
}

type PaymentGateway interface {
	Name() Name
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	// VerifyWebhook checks signature against the exact raw payload.
	VerifyWebhook(payload []byte, signature string) error
	ParseCompletedPayment(payload []byte) (*WebhookEvent, error)
	// QueuesManualPayouts reports whether a settled payment should enqueue a
	// manual transfer to the creator's payout address.
	QueuesManualPayouts() bool
	// SignatureHeader is the request header carrying the webhook signature.
	SignatureHeader() string
}

// paymentFromMetadata reads the correlation fields written at checkout.
// Missing or malformed values degrade to zero values.
func paymentFromMetadata(meta map[string]string) (username string, charity int, creatorID *uuid.UUID) {
	username = strings.TrimSpace(meta[MetaUsername])

	raw := meta[MetaCharityPercentage]
	if raw == "" {
		raw = meta["charityPercentage"]
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 && n <= 100 {
		charity = n
	}

	if id, err := uuid.Parse(strings.TrimSpace(meta[MetaCreatorID])); err == nil && id != uuid.Nil {
		creatorID = &id
	}
	return username, charity, creatorID
}

// Registry holds the gateways enabled by configuration.
type Registry struct {
	gateways map[Name]PaymentGateway
}

func NewRegistry(gws ...PaymentGateway) *Registry {
	r := &Registry{gateways: make(map[Name]PaymentGateway, len(gws))}
	for _, g := range gws {
		if g != nil {
			r.gateways[g.Name()] = g
		}
	}
	return r
}

func (r *Registry) Get(name Name) (PaymentGateway, error) {
	g, ok := r.gateways[name]
	if !ok {
		return nil, apperrors.Configuration("payment gateway " + string(name) + " is not configured")
	}
	return g, nil
}

func (r *Registry) Names() []Name {
	out := make([]Name, 0, len(r.gateways))
	for n := range r.gateways {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
