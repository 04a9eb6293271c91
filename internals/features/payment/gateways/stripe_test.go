package gateways

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/matryer/is"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/payment/fees"
)

type fakeSessions struct {
	newFn func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	got   *stripe.CheckoutSessionParams
}

func (f *fakeSessions) New(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.got = p
	if f.newFn != nil {
		return f.newFn(p)
	}
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

var creatorID = uuid.MustParse("6f1c3c39-4d7a-4f5e-9a51-7a6a1b2f8c10")

func TestStripeCreateCheckout(t *testing.T) {
	is := is.New(t)
	fake := &fakeSessions{}
	g := NewStripeGatewayWith(fake, "whsec_test", "")

	res, err := g.CreateCheckout(context.Background(), CheckoutRequest{
		CreatorID:         creatorID,
		Username:          "alice",
		AccountID:         "acct_123",
		CharityPercentage: 10,
		Split:             fees.SplitOf(10000),
		Origin:            "https://sprout.example",
	})
	is.NoErr(err)
	is.Equal(res.Gateway, Stripe)
	is.Equal(res.URL, "https://checkout.stripe.com/c/pay/cs_test_1")

	p := fake.got
	is.Equal(*p.LineItems[0].PriceData.UnitAmount, int64(10000))
	is.Equal(*p.LineItems[0].PriceData.Currency, "usd")
	is.Equal(*p.LineItems[0].PriceData.ProductData.Name, "Support alice")
	is.Equal(*p.LineItems[0].PriceData.ProductData.Description, "Includes 10% for charity")
	is.Equal(*p.PaymentIntentData.ApplicationFeeAmount, int64(200))
	is.Equal(*p.PaymentIntentData.TransferData.Destination, "acct_123")
	is.Equal(p.PaymentIntentData.Metadata[MetaCharityPercentage], "10")
	is.Equal(p.Metadata[MetaCreatorID], creatorID.String())
	is.Equal(*p.SuccessURL, "https://sprout.example/alice?status=success")
	is.Equal(*p.CancelURL, "https://sprout.example/alice?status=cancelled")
}

func TestStripeCreateCheckoutWithoutCharityHasNoDescription(t *testing.T) {
	is := is.New(t)
	fake := &fakeSessions{}
	g := NewStripeGatewayWith(fake, "", "USD")

	_, err := g.CreateCheckout(context.Background(), CheckoutRequest{
		CreatorID: creatorID,
		Username:  "bob",
		AccountID: "acct_9",
		Split:     fees.SplitOf(50),
	})
	is.NoErr(err)
	is.True(fake.got.LineItems[0].PriceData.ProductData.Description == nil)
	is.Equal(*fake.got.PaymentIntentData.ApplicationFeeAmount, int64(1))
}

func TestStripeCreateCheckoutErrors(t *testing.T) {
	is := is.New(t)

	called := false
	fake := &fakeSessions{newFn: func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		called = true
		return nil, &stripe.Error{Msg: "No such destination: 'acct_gone'"}
	}}
	g := NewStripeGatewayWith(fake, "", "")

	_, err := g.CreateCheckout(context.Background(), CheckoutRequest{Username: "alice", Split: fees.SplitOf(500)})
	is.True(errors.Is(err, apperrors.ErrNoPayoutConfigured))
	is.True(!called)

	_, err = g.CreateCheckout(context.Background(), CheckoutRequest{Username: "alice", AccountID: "acct_gone", Split: fees.SplitOf(500)})
	is.True(errors.Is(err, apperrors.ErrGateway))
	is.Equal(apperrors.MessageOf(err), "No such destination: 'acct_gone'")
}

const completedSession = `{
  "id": "evt_1",
  "object": "event",
  "type": "checkout.session.completed",
  "data": {
    "object": {
      "id": "cs_test_1",
      "object": "checkout.session",
      "amount_total": 10000,
      "currency": "usd",
      "payment_status": "paid",
      "payment_intent": "pi_123",
      "metadata": {
        "username": "alice",
        "charity_percentage": "10",
        "creator_id": "6f1c3c39-4d7a-4f5e-9a51-7a6a1b2f8c10"
      }
    }
  }
}`

func signStripe(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  secret,
	}).Header
}

func TestStripeVerifyWebhook(t *testing.T) {
	is := is.New(t)
	g := NewStripeGatewayWith(nil, "whsec_test", "")
	body := []byte(completedSession)

	is.NoErr(g.VerifyWebhook(body, signStripe(body, "whsec_test")))

	tampered := []byte(completedSession + " ")
	is.True(errors.Is(g.VerifyWebhook(tampered, signStripe(body, "whsec_test")), apperrors.ErrInvalidSignature))
	is.True(errors.Is(g.VerifyWebhook(body, signStripe(body, "whsec_other")), apperrors.ErrInvalidSignature))
	is.True(errors.Is(g.VerifyWebhook(body, ""), apperrors.ErrMissingSignature))

	unconfigured := NewStripeGatewayWith(nil, "", "")
	err := unconfigured.VerifyWebhook(body, signStripe(body, "whsec_test"))
	is.True(errors.Is(err, apperrors.ErrMissingSecret))
	is.Equal(apperrors.KindOf(err), apperrors.KindConfiguration)
}

func TestStripeParseCompletedPayment(t *testing.T) {
	is := is.New(t)
	g := NewStripeGatewayWith(nil, "whsec_test", "")

	ev, err := g.ParseCompletedPayment([]byte(completedSession))
	is.NoErr(err)
	is.Equal(ev.ID, "evt_1")
	is.Equal(ev.Type, "checkout.session.completed")
	is.True(ev.Payment != nil)
	is.Equal(ev.Payment.PaymentID, "pi_123")
	is.Equal(ev.Payment.AmountCents, int64(10000))
	is.Equal(ev.Payment.Currency, "usd")
	is.Equal(ev.Payment.Username, "alice")
	is.Equal(ev.Payment.CharityPercentage, 10)
	is.Equal(*ev.Payment.CreatorID, creatorID)
	is.True(ev.Payment.Recordable())
}

func TestStripeParseReadsLegacyCharityKey(t *testing.T) {
	is := is.New(t)
	g := NewStripeGatewayWith(nil, "whsec_test", "")
	body := `{"id":"evt_2","object":"event","type":"checkout.session.completed","data":{"object":{
		"id":"cs_2","object":"checkout.session","amount_total":500,"currency":"usd","payment_status":"paid",
		"payment_intent":"pi_2","metadata":{"username":"alice","charityPercentage":"10"}}}}`

	ev, err := g.ParseCompletedPayment([]byte(body))
	is.NoErr(err)
	is.Equal(ev.Payment.CharityPercentage, 10)
	// no creator id in metadata: not bookable
	is.True(!ev.Payment.Recordable())
}

func TestStripeParseIgnoresOtherEvents(t *testing.T) {
	is := is.New(t)
	g := NewStripeGatewayWith(nil, "whsec_test", "")

	ev, err := g.ParseCompletedPayment([]byte(`{"id":"evt_3","object":"event","type":"payment_intent.created","data":{"object":{"id":"pi_3","object":"payment_intent"}}}`))
	is.NoErr(err)
	is.Equal(ev.Type, "payment_intent.created")
	is.True(ev.Payment == nil)

	unpaid := `{"id":"evt_4","object":"event","type":"checkout.session.completed","data":{"object":{
		"id":"cs_4","object":"checkout.session","amount_total":500,"payment_status":"unpaid","payment_intent":"pi_4"}}}`
	ev, err = g.ParseCompletedPayment([]byte(unpaid))
	is.NoErr(err)
	is.True(ev.Payment == nil)

	_, err = g.ParseCompletedPayment([]byte(`not json`))
	is.True(err != nil)
}
