package model

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

const (
	GatewayStripe   = "stripe"
	GatewayRazorpay = "razorpay"
)

// CreatorProfile is a row of the users table. ID is the auth provider's user id.
type CreatorProfile struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Username *string   `gorm:"column:username;size:20;uniqueIndex" json:"username"`
	Email    *string   `gorm:"column:email;size:255" json:"email,omitempty"`

	DisplayName     *string `gorm:"column:display_name;size:100" json:"display_name,omitempty"`
	Bio             *string `gorm:"column:bio;type:text" json:"bio,omitempty"`
	AvatarURL       *string `gorm:"column:avatar_url;type:text" json:"avatar_url,omitempty"`
	SocialTwitter   *string `gorm:"column:social_twitter;type:text" json:"social_twitter,omitempty"`
	SocialInstagram *string `gorm:"column:social_instagram;type:text" json:"social_instagram,omitempty"`
	SocialYoutube   *string `gorm:"column:social_youtube;type:text" json:"social_youtube,omitempty"`
	SocialWebsite   *string `gorm:"column:social_website;type:text" json:"social_website,omitempty"`

	// Payout configuration
	PaymentGateway    *string `gorm:"column:payment_gateway;size:20" json:"payment_gateway,omitempty"`
	StripeAccountID   *string `gorm:"column:stripe_account_id;size:64" json:"-"`
	RazorpayAccountID *string `gorm:"column:razorpay_account_id;size:64" json:"-"`
	UPIID             *string `gorm:"column:upi_id;size:100" json:"-"`

	// Compliance, required before razorpay linked-account creation
	Phone      *string `gorm:"column:phone;size:20" json:"-" validate:"required"`
	LegalName  *string `gorm:"column:legal_name;size:200" json:"-" validate:"required"`
	Street1    *string `gorm:"column:street1;size:200" json:"-" validate:"required"`
	Street2    *string `gorm:"column:street2;size:200" json:"-" validate:"required"`
	City       *string `gorm:"column:city;size:100" json:"-" validate:"required"`
	State      *string `gorm:"column:state;size:100" json:"-" validate:"required"`
	PostalCode *string `gorm:"column:postal_code;size:12" json:"-" validate:"required,numeric"`
	PAN        *string `gorm:"column:pan;size:10" json:"-"`
	GST        *string `gorm:"column:gst;size:15" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CreatorProfile) TableName() string { return "users" }

func (p *CreatorProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Lowercase letters, digits, hyphen or underscore, 3 to 20 chars.
var usernamePattern = regexp.MustCompile(`^[a-z0-9_\-]{3,20}$`)

// NormalizeUsername trims and lowercases a requested username and reports
// whether the result is claimable.
func NormalizeUsername(raw string) (string, bool) {
	clean := strings.ToLower(strings.TrimSpace(raw))
	return clean, usernamePattern.MatchString(clean)
}

func (p *CreatorProfile) HasUsername() bool { return present(p.Username) }

func present(s *string) bool { return s != nil && strings.TrimSpace(*s) != "" }

func (p *CreatorProfile) HasStripeAccount() bool   { return present(p.StripeAccountID) }
func (p *CreatorProfile) HasRazorpayAccount() bool { return present(p.RazorpayAccountID) }
func (p *CreatorProfile) HasPayoutAddress() bool   { return present(p.UPIID) }

// PrefersGateway reports whether payment_gateway is set to name.
func (p *CreatorProfile) PrefersGateway(name string) bool {
	return p.PaymentGateway != nil && strings.EqualFold(strings.TrimSpace(*p.PaymentGateway), name)
}

// Str returns the trimmed value of an optional column.
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// MissingComplianceFields lists the columns that still need a value before a
// razorpay linked account can be created. Empty strings count as missing.
func (p *CreatorProfile) MissingComplianceFields() []string {
	cp := *p
	for _, f := range []**string{&cp.Phone, &cp.LegalName, &cp.Street1, &cp.Street2, &cp.City, &cp.State, &cp.PostalCode} {
		if !present(*f) {
			*f = nil
		}
	}

	err := validate.StructPartial(&cp, "Phone", "LegalName", "Street1", "Street2", "City", "State", "PostalCode")
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []string{err.Error()}
	}
	names := map[string]string{
		"Phone":      "phone",
		"LegalName":  "legal_name",
		"Street1":    "street1",
		"Street2":    "street2",
		"City":       "city",
		"State":      "state",
		"PostalCode": "postal_code",
	}
	out := make([]string, 0, len(ves))
	for _, fe := range ves {
		out = append(out, names[fe.Field()])
	}
	sort.Strings(out)
	return out
}
