package controller

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/matryer/is"
	"github.com/stripe/stripe-go/v82"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/creators/profiles/model"
	"sprout_backend/internals/features/payment/checkout/service"
	"sprout_backend/internals/features/payment/gateways"
)

type oneCreator struct{ p *model.CreatorProfile }

func (o oneCreator) FindByUsername(_ context.Context, username string) (*model.CreatorProfile, error) {
	if username == *o.p.Username {
		return o.p, nil
	}
	return nil, apperrors.NotFound("Creator not found")
}

type sessions struct{ successURL string }

func (s *sessions) New(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	s.successURL = *p.SuccessURL
	return &stripe.CheckoutSession{URL: "https://checkout.stripe.com/c/pay/cs_1"}, nil
}

func setup() (*fiber.App, *sessions) {
	username, acct := "alice", "acct_1"
	creator := &model.CreatorProfile{ID: uuid.New(), Username: &username, StripeAccountID: &acct}
	sess := &sessions{}
	reg := gateways.NewRegistry(gateways.NewStripeGatewayWith(sess, "whsec", "usd"))
	svc := service.NewCheckoutService(oneCreator{creator}, reg, 50)
	ctrl := NewCheckoutController(svc, "https://sprout.example", []string{"https://www.sprout.example"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	app := fiber.New()
	app.Post("/checkout", ctrl.Handler(""))
	return app, sess
}

func do(t *testing.T, app *fiber.App, body, origin string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestCheckoutEndpoint(t *testing.T) {
	is := is.New(t)
	app, sess := setup()

	code, out := do(t, app, `{"amountCents":1000,"username":"alice","charityPercentage":10}`, "https://www.sprout.example")
	is.Equal(code, fiber.StatusOK)
	is.Equal(out["url"], "https://checkout.stripe.com/c/pay/cs_1")
	is.Equal(out["gateway"], "stripe")
	is.Equal(sess.successURL, "https://www.sprout.example/alice?status=success")
}

func TestCheckoutEndpointErrors(t *testing.T) {
	is := is.New(t)
	app, _ := setup()

	code, out := do(t, app, `{not json`, "")
	is.Equal(code, fiber.StatusBadRequest)
	is.Equal(out["success"], false)

	code, out = do(t, app, `{"amountCents":49,"username":"alice"}`, "")
	is.Equal(code, fiber.StatusBadRequest)
	is.Equal(out["message"], "amountCents must be >= 50")

	code, out = do(t, app, `{"amountCents":500,"username":"bob"}`, "")
	is.Equal(code, fiber.StatusNotFound)
	is.Equal(out["message"], "Creator not found")
}

func TestReturnOrigin(t *testing.T) {
	is := is.New(t)
	ctrl := &CheckoutController{SiteURL: "https://sprout.example", AllowedOrigins: []string{"https://www.sprout.example/"}}

	is.Equal(ctrl.returnOrigin(""), "https://sprout.example")
	is.Equal(ctrl.returnOrigin("https://www.sprout.example"), "https://www.sprout.example")
	is.Equal(ctrl.returnOrigin("https://evil.example"), "https://sprout.example")
	is.Equal(ctrl.returnOrigin("https://sprout.example/"), "https://sprout.example")
}
