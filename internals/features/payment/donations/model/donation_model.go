package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sprout_backend/internals/features/payment/fees"
)

/* ===================== Model ===================== */

// Donation is one settled payment. Rows are append only and keyed for
// idempotency by the gateway's payment reference.
type Donation struct {
	DonationID uuid.UUID `gorm:"column:donation_id;type:uuid;primaryKey" json:"donation_id"`

	DonationCreatorID uuid.UUID `gorm:"column:donation_creator_id;type:uuid;not null;index:idx_donations_creator_created,priority:1" json:"donation_creator_id"`

	DonationAmountCents       int64  `gorm:"column:donation_amount_cents;not null;check:donation_amount_cents > 0" json:"donation_amount_cents"`
	DonationCharityPercentage int    `gorm:"column:donation_charity_percentage;not null;default:0" json:"donation_charity_percentage"`
	DonationCurrency          string `gorm:"column:donation_currency;size:3" json:"donation_currency"`

	DonationGateway           string `gorm:"column:donation_gateway;size:20;not null" json:"donation_gateway"`
	DonationExternalPaymentID string `gorm:"column:donation_external_payment_id;size:100;not null;uniqueIndex" json:"donation_external_payment_id"`

	DonationMetadata datatypes.JSONMap `gorm:"column:donation_metadata" json:"donation_metadata,omitempty"`

	DonationCreatedAt time.Time `gorm:"column:donation_created_at;autoCreateTime;index:idx_donations_creator_created,priority:2,sort:desc" json:"donation_created_at"`
}

func (Donation) TableName() string { return "donations" }

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.DonationID == uuid.Nil {
		d.DonationID = uuid.New()
	}
	return nil
}

/* ===================== Helpers ===================== */

// CharityCents is the charity share of this donation, floored.
func (d *Donation) CharityCents() int64 {
	return fees.CharityAmount(d.DonationAmountCents, d.DonationCharityPercentage)
}

// MetadataFrom copies gateway metadata into the JSON column type.
func MetadataFrom(m map[string]string) datatypes.JSONMap {
	if len(m) == 0 {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
