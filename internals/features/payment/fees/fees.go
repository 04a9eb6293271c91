// Package fees holds the integer split arithmetic shared by checkout and the
// ledger. All amounts are minor currency units; every division floors.
package fees

import (
	"math"

	"github.com/shopspring/decimal"
)

// PlatformFeePercent is the share of the gross amount kept by the platform.
const PlatformFeePercent int64 = 2

// MaxAmountCents is the largest gross amount the split arithmetic accepts.
const MaxAmountCents int64 = math.MaxInt64 / 100

// PlatformFee returns floor(amount * PlatformFeePercent / 100).
func PlatformFee(amount int64) int64 {
	return Percent(amount, PlatformFeePercent)
}

// CreatorShare is what is transferred to the creator's connected account.
func CreatorShare(amount int64) int64 {
	return amount - PlatformFee(amount)
}

// CharityAmount returns floor(amount * percentage / 100).
func CharityAmount(amount int64, percentage int) int64 {
	return Percent(amount, int64(percentage))
}

// Percent returns floor(amount * pct / 100) for non-negative inputs and
// pct <= 100, without forming the full product.
func Percent(amount, pct int64) int64 {
	if amount <= 0 || pct <= 0 {
		return 0
	}
	return amount/100*pct + amount%100*pct/100
}

// Split is the settlement breakdown of one gross amount.
type Split struct {
	Gross        int64 `json:"gross_cents"`
	PlatformFee  int64 `json:"platform_fee_cents"`
	CreatorShare int64 `json:"creator_share_cents"`
}

func SplitOf(gross int64) Split {
	fee := PlatformFee(gross)
	return Split{Gross: gross, PlatformFee: fee, CreatorShare: gross - fee}
}

// ToMajor converts minor units to a two-place major-unit amount (12345 -> 123.45).
func ToMajor(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
