package gateways

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	razorpay "github.com/razorpay/razorpay-go"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/configs"
	"sprout_backend/internals/features/payment/fees"
)

const (
	RazorpaySignatureHeader = "X-Razorpay-Signature"
	razorpayCapturedEvent   = "payment.captured"
	razorpayReceiptMaxLen   = 40
)

// RazorpayOrderCreator matches the razorpay-go Order resource.
type RazorpayOrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type RazorpayGateway struct {
	orders        RazorpayOrderCreator
	keyID         string
	webhookSecret string
	currency      string
	now           func() time.Time
}

func NewRazorpayGateway(cfg configs.RazorpayConfig) *RazorpayGateway {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return NewRazorpayGatewayWith(client.Order, cfg.KeyID, cfg.WebhookSecret, cfg.Currency)
}

func NewRazorpayGatewayWith(orders RazorpayOrderCreator, keyID, webhookSecret, currency string) *RazorpayGateway {
	if currency == "" {
		currency = "INR"
	}
	return &RazorpayGateway{
		orders:        orders,
		keyID:         keyID,
		webhookSecret: webhookSecret,
		currency:      strings.ToUpper(currency),
		now:           time.Now,
	}
}

func (g *RazorpayGateway) Name() Name                { return Razorpay }
func (g *RazorpayGateway) QueuesManualPayouts() bool { return false }
func (g *RazorpayGateway) SignatureHeader() string   { return RazorpaySignatureHeader }

func (g *RazorpayGateway) receipt(username string) string {
	r := fmt.Sprintf("%s_%d", username, g.now().UnixMilli())
	if len(r) > razorpayReceiptMaxLen {
		r = r[len(r)-razorpayReceiptMaxLen:]
	}
	return r
}

func (g *RazorpayGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if req.AccountID == "" {
		return nil, apperrors.NoPayoutConfigured("Creator hasn't connected Razorpay yet")
	}
	notes := req.Metadata()

	transferNotes := map[string]interface{}{
		MetaUsername:           req.Username,
		MetaCharityPercentage:  notes[MetaCharityPercentage],
		"platform_fee_percent": strconv.FormatInt(fees.PlatformFeePercent, 10),
	}
	data := map[string]interface{}{
		"amount":   req.Split.Gross,
		"currency": g.currency,
		"receipt":  g.receipt(req.Username),
		"notes":    toInterfaceMap(notes),
		"transfers": []map[string]interface{}{
			{
				"account":  req.AccountID,
				"amount":   req.Split.CreatorShare,
				"currency": g.currency,
				"notes":    transferNotes,
			},
		},
	}

	// The SDK has no context support; the request lifecycle bounds the call.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	order, err := g.orders.Create(data, nil)
	if err != nil {
		return nil, apperrors.Gateway(err)
	}

	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, apperrors.Gateway(fmt.Errorf("razorpay order response without id"))
	}
	res := &CheckoutResult{
		Gateway:  Razorpay,
		OrderID:  orderID,
		Amount:   req.Split.Gross,
		Currency: g.currency,
		KeyID:    g.keyID,
	}
	if amt, ok := jsonInt(order["amount"]); ok {
		res.Amount = amt
	}
	if cur, ok := order["currency"].(string); ok && cur != "" {
		res.Currency = cur
	}
	return res, nil
}

// RazorpaySignature returns hex(HMAC-SHA256(payload, secret)).
func RazorpaySignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *RazorpayGateway) VerifyWebhook(payload []byte, signature string) error {
	if g.webhookSecret == "" {
		return apperrors.ErrMissingSecret
	}
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return apperrors.ErrMissingSignature
	}
	expected := RazorpaySignature(payload, g.webhookSecret)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return apperrors.ErrInvalidSignature
	}
	return nil
}

type razorpayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID       string          `json:"id"`
				Amount   int64           `json:"amount"`
				Currency string          `json:"currency"`
				OrderID  string          `json:"order_id"`
				Status   string          `json:"status"`
				Notes    json.RawMessage `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (g *RazorpayGateway) ParseCompletedPayment(payload []byte) (*WebhookEvent, error) {
	var ev razorpayEvent
	if err := sonic.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode razorpay event: %w", err)
	}
	entity := ev.Payload.Payment.Entity
	out := &WebhookEvent{ID: entity.ID, Type: ev.Event}
	if ev.Event != razorpayCapturedEvent {
		return out, nil
	}

	notes, err := decodeNotes(entity.Notes)
	if err != nil {
		return nil, err
	}
	username, charity, creatorID := paymentFromMetadata(notes)
	out.Payment = &CompletedPayment{
		Gateway:           Razorpay,
		PaymentID:         entity.ID,
		AmountCents:       entity.Amount,
		Currency:          entity.Currency,
		Username:          username,
		CharityPercentage: charity,
		CreatorID:         creatorID,
		Metadata:          notes,
	}
	if entity.OrderID != "" {
		out.Payment.Metadata["order_id"] = entity.OrderID
	}
	return out, nil
}

// decodeNotes accepts the notes object, and the empty array Razorpay sends
// when an entity has no notes.
func decodeNotes(raw json.RawMessage) (map[string]string, error) {
	out := map[string]string{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return out, nil
	}
	var m map[string]interface{}
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode razorpay notes: %w", err)
	}
	for k, v := range m {
		switch t := v.(type) {
		case string:
			out[k] = t
		case nil:
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out, nil
}

func toInterfaceMap(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func jsonInt(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int64:
		return t, true
	case int:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	}
	return 0, false
}
