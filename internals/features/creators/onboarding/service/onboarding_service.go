// Package service connects creators to a gateway's payout account:
// Stripe Express accounts and Razorpay Route linked accounts.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/account"
	"github.com/stripe/stripe-go/v82/accountlink"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/configs"
	"sprout_backend/internals/features/creators/profiles/model"
)

type StripeAccountCreator interface {
	New(params *stripe.AccountParams) (*stripe.Account, error)
}

type StripeAccountLinkCreator interface {
	New(params *stripe.AccountLinkParams) (*stripe.AccountLink, error)
}

// RazorpayAccountCreator matches the razorpay-go Account resource.
type RazorpayAccountCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type ProfileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.CreatorProfile, error)
	SetStripeAccount(ctx context.Context, creatorID uuid.UUID, accountID string) error
	SetRazorpayAccount(ctx context.Context, creatorID uuid.UUID, accountID string) error
}

type OnboardingService struct {
	Profiles         ProfileStore
	StripeAccounts   StripeAccountCreator
	StripeLinks      StripeAccountLinkCreator
	RazorpayAccounts RazorpayAccountCreator
	SiteURL          string
	Log              *slog.Logger
}

// NewOnboardingService wires the SDK clients for the gateways enabled in cfg.
// A disabled gateway leaves its clients nil.
func NewOnboardingService(profiles ProfileStore, cfg *configs.Config, log *slog.Logger) *OnboardingService {
	s := &OnboardingService{Profiles: profiles, SiteURL: cfg.App.SiteURL, Log: log}
	if cfg.Stripe.Enabled() {
		backend := stripe.GetBackend(stripe.APIBackend)
		s.StripeAccounts = &account.Client{B: backend, Key: cfg.Stripe.SecretKey}
		s.StripeLinks = &accountlink.Client{B: backend, Key: cfg.Stripe.SecretKey}
	}
	if cfg.Razorpay.Enabled() {
		s.RazorpayAccounts = razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret).Account
	}
	return s
}

/* ===================== Stripe Connect ===================== */

// OnboardStripe makes sure the creator has an Express account and returns a
// fresh hosted onboarding link for it.
func (s *OnboardingService) OnboardStripe(ctx context.Context, creatorID uuid.UUID) (string, error) {
	if s.StripeAccounts == nil || s.StripeLinks == nil {
		return "", apperrors.Configuration("stripe is not configured")
	}
	p, err := s.Profiles.FindByID(ctx, creatorID)
	if err != nil {
		return "", err
	}

	accountID := model.Str(p.StripeAccountID)
	if accountID == "" {
		params := &stripe.AccountParams{
			Type: stripe.String(string(stripe.AccountTypeExpress)),
			Capabilities: &stripe.AccountCapabilitiesParams{
				CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
				Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
			},
		}
		if email := model.Str(p.Email); email != "" {
			params.Email = stripe.String(email)
		}
		params.Context = ctx
		params.AddMetadata("user_id", creatorID.String())
		params.AddMetadata("username", model.Str(p.Username))

		acct, err := s.StripeAccounts.New(params)
		if err != nil {
			return "", stripeError(err)
		}
		accountID = acct.ID
		if err := s.Profiles.SetStripeAccount(ctx, creatorID, accountID); err != nil {
			return "", fmt.Errorf("save stripe account: %w", err)
		}
		s.Log.Info("stripe account created", "creator_id", creatorID, "account_id", accountID)
	}

	linkParams := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(s.SiteURL + "/dashboard"),
		ReturnURL:  stripe.String(s.SiteURL + "/dashboard"),
		Type:       stripe.String("account_onboarding"),
	}
	linkParams.Context = ctx
	link, err := s.StripeLinks.New(linkParams)
	if err != nil {
		return "", stripeError(err)
	}
	return link.URL, nil
}

func stripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return apperrors.Gateway(errors.New(se.Msg))
	}
	return apperrors.Gateway(err)
}

/* ===================== Razorpay Route ===================== */

type RazorpayOnboarding struct {
	AccountID string `json:"accountId"`
	Message   string `json:"message"`
}

const (
	msgRazorpayConnected = "Razorpay account already connected."
	msgRazorpayCreated   = "Account created. Creator needs to complete KYC via Razorpay dashboard."

	razorpayReferenceMaxLen = 20
)

// OnboardRazorpay creates a Route linked account from the creator's
// compliance fields. An existing account is returned as is.
func (s *OnboardingService) OnboardRazorpay(ctx context.Context, creatorID uuid.UUID) (*RazorpayOnboarding, error) {
	if s.RazorpayAccounts == nil {
		return nil, apperrors.Configuration("razorpay is not configured")
	}
	p, err := s.Profiles.FindByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if p.HasRazorpayAccount() {
		return &RazorpayOnboarding{AccountID: model.Str(p.RazorpayAccountID), Message: msgRazorpayConnected}, nil
	}

	missing := p.MissingComplianceFields()
	if model.Str(p.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, apperrors.Validation("Please complete your profile in Settings before connecting Razorpay (missing: " + strings.Join(missing, ", ") + ")")
	}
	if !p.HasUsername() {
		return nil, apperrors.Validation("Claim a username before connecting Razorpay")
	}

	data, err := linkedAccountRequest(p)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	acct, err := s.RazorpayAccounts.Create(data, nil)
	if err != nil {
		return nil, apperrors.Gateway(err)
	}
	accountID, _ := acct["id"].(string)
	if accountID == "" {
		return nil, apperrors.Gateway(errors.New("razorpay account response without id"))
	}
	if err := s.Profiles.SetRazorpayAccount(ctx, creatorID, accountID); err != nil {
		return nil, fmt.Errorf("save razorpay account: %w", err)
	}
	s.Log.Info("razorpay linked account created", "creator_id", creatorID, "account_id", accountID)
	return &RazorpayOnboarding{AccountID: accountID, Message: msgRazorpayCreated}, nil
}

func linkedAccountRequest(p *model.CreatorProfile) (map[string]interface{}, error) {
	postal, err := strconv.Atoi(model.Str(p.PostalCode))
	if err != nil {
		return nil, apperrors.Validation("postal_code must be numeric")
	}
	ref := model.Str(p.Username)
	if len(ref) > razorpayReferenceMaxLen {
		ref = ref[:razorpayReferenceMaxLen]
	}
	legalName := model.Str(p.LegalName)

	data := map[string]interface{}{
		"email":               model.Str(p.Email),
		"phone":               model.Str(p.Phone),
		"type":                "route",
		"reference_id":        ref,
		"legal_business_name": legalName,
		"business_type":       "individual",
		"contact_name":        legalName,
		"profile": map[string]interface{}{
			"category":    "healthcare",
			"subcategory": "clinic",
			"addresses": map[string]interface{}{
				"registered": map[string]interface{}{
					"street1":     model.Str(p.Street1),
					"street2":     model.Str(p.Street2),
					"city":        model.Str(p.City),
					"state":       model.Str(p.State),
					"country":     "IN",
					"postal_code": postal,
				},
			},
		},
	}

	legal := map[string]interface{}{}
	if pan := model.Str(p.PAN); pan != "" {
		legal["pan"] = pan
	}
	if gst := model.Str(p.GST); gst != "" {
		legal["gst"] = gst
	}
	if len(legal) > 0 {
		data["legal_info"] = legal
	}
	return data, nil
}
