package dto

// CheckoutRequest is the public donation form. Field names follow the
// existing frontend.
type CheckoutRequest struct {
	AmountCents       int64  `json:"amountCents"`
	Username          string `json:"username"`
	CharityPercentage int    `json:"charityPercentage"`
}
