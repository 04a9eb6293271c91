package dto

import (
	"time"

	"github.com/google/uuid"

	"sprout_backend/internals/features/creators/profiles/model"
)

// PublicProfile is what supporters see on a donation page. Account ids, the
// payout address and compliance fields never leave the server.
type PublicProfile struct {
	Username        string  `json:"username"`
	DisplayName     *string `json:"display_name"`
	AvatarURL       *string `json:"avatar_url"`
	Bio             *string `json:"bio"`
	SocialTwitter   *string `json:"social_twitter"`
	SocialInstagram *string `json:"social_instagram"`
	SocialYoutube   *string `json:"social_youtube"`
	SocialWebsite   *string `json:"social_website"`

	// Gateway is the gateway a checkout would use, "" when none.
	Gateway          string `json:"gateway"`
	AcceptsDonations bool   `json:"accepts_donations"`
}

func ToPublicProfile(p *model.CreatorProfile, gateway string, accepts bool) PublicProfile {
	return PublicProfile{
		Username:         model.Str(p.Username),
		DisplayName:      p.DisplayName,
		AvatarURL:        p.AvatarURL,
		Bio:              p.Bio,
		SocialTwitter:    p.SocialTwitter,
		SocialInstagram:  p.SocialInstagram,
		SocialYoutube:    p.SocialYoutube,
		SocialWebsite:    p.SocialWebsite,
		Gateway:          gateway,
		AcceptsDonations: accepts,
	}
}

// MeResponse is the signed-in creator's own view, with payout status flags
// in place of the identifiers themselves.
type MeResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    *string   `json:"username"`
	Email       *string   `json:"email,omitempty"`
	DisplayName *string   `json:"display_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Bio         *string   `json:"bio,omitempty"`

	PaymentGateway     *string  `json:"payment_gateway"`
	StripeConnected    bool     `json:"stripe_connected"`
	RazorpayConnected  bool     `json:"razorpay_connected"`
	HasPayoutAddress   bool     `json:"has_payout_address"`
	MissingCompliance  []string `json:"missing_compliance_fields"`
	NeedsUsernameClaim bool     `json:"needs_username"`

	CreatedAt time.Time `json:"created_at"`
}

func ToMeResponse(p *model.CreatorProfile) MeResponse {
	missing := p.MissingComplianceFields()
	if missing == nil {
		missing = []string{}
	}
	return MeResponse{
		ID:                 p.ID,
		Username:           p.Username,
		Email:              p.Email,
		DisplayName:        p.DisplayName,
		AvatarURL:          p.AvatarURL,
		Bio:                p.Bio,
		PaymentGateway:     p.PaymentGateway,
		StripeConnected:    p.HasStripeAccount(),
		RazorpayConnected:  p.HasRazorpayAccount(),
		HasPayoutAddress:   p.HasPayoutAddress(),
		MissingCompliance:  missing,
		NeedsUsernameClaim: !p.HasUsername(),
		CreatedAt:          p.CreatedAt,
	}
}

type ClaimUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}
