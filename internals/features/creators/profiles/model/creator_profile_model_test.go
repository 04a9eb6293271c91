package model

import (
	"testing"

	"github.com/matryer/is"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Alice", "alice", true},
		{"  bob_99 ", "bob_99", true},
		{"a-b", "a-b", true},
		{"ab", "ab", false},
		{"abcdefghijklmnopqrstu", "abcdefghijklmnopqrstu", false},
		{"no spaces", "no spaces", false},
		{"dot.name", "dot.name", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			is := is.New(t)
			got, ok := NormalizeUsername(tt.in)
			is.Equal(got, tt.want)
			is.Equal(ok, tt.ok)
		})
	}
}

func TestMissingComplianceFields(t *testing.T) {
	is := is.New(t)
	s := func(v string) *string { return &v }

	p := &CreatorProfile{Phone: s("9999999999"), LegalName: s("Ravi Kumar"), Street1: s(" "), City: s("Pune")}
	is.Equal(p.MissingComplianceFields(), []string{"postal_code", "state", "street1", "street2"})
	// blanking is done on a copy
	is.Equal(*p.Street1, " ")

	p.Street1, p.Street2, p.State, p.PostalCode = s("1 MG Road"), s("Flat 2"), s("MH"), s("411001")
	is.Equal(len(p.MissingComplianceFields()), 0)

	p.PostalCode = s("41A001")
	is.Equal(p.MissingComplianceFields(), []string{"postal_code"})
}

func TestGatewayFlags(t *testing.T) {
	is := is.New(t)
	s := func(v string) *string { return &v }

	p := &CreatorProfile{PaymentGateway: s(" Stripe "), StripeAccountID: s(""), UPIID: s("me@upi")}
	is.True(p.PrefersGateway(GatewayStripe))
	is.True(!p.PrefersGateway(GatewayRazorpay))
	is.True(!p.HasStripeAccount())
	is.True(p.HasPayoutAddress())
	is.True(!p.HasUsername())
	is.Equal(Str(nil), "")
	is.Equal(Str(s(" x ")), "x")
}
