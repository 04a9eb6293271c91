package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sprout_backend/internals/features/payment/donations/model"
)

type DonationResponse struct {
	DonationID        uuid.UUID `json:"donation_id"`
	AmountCents       int64     `json:"amount_cents"`
	CharityPercentage int       `json:"charity_percentage"`
	CharityCents      int64     `json:"charity_cents"`
	Currency          string    `json:"currency"`
	Gateway           string    `json:"gateway"`
	CreatedAt         time.Time `json:"created_at"`
}

func FromModel(d model.Donation) DonationResponse {
	return DonationResponse{
		DonationID:        d.DonationID,
		AmountCents:       d.DonationAmountCents,
		CharityPercentage: d.DonationCharityPercentage,
		CharityCents:      d.CharityCents(),
		Currency:          d.DonationCurrency,
		Gateway:           d.DonationGateway,
		CreatedAt:         d.DonationCreatedAt,
	}
}

func FromModels(rows []model.Donation) []DonationResponse {
	out := make([]DonationResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, FromModel(d))
	}
	return out
}

// SummaryResponse is the dashboard view of a creator's recent donations.
// Totals cover only the listed donations.
type SummaryResponse struct {
	Donations     []DonationResponse `json:"donations"`
	Count         int                `json:"count"`
	TotalCents    int64              `json:"total_cents"`
	CharityCents  int64              `json:"charity_cents"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	CharityAmount decimal.Decimal    `json:"charity_amount"`
}
