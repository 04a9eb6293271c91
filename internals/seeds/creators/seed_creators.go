// Package creators loads demo creator profiles for local development.
package creators

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sprout_backend/internals/features/creators/profiles/model"
	"sprout_backend/internals/features/payment/gateways"
)

type CreatorSeed struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	DisplayName       string    `json:"display_name"`
	Bio               string    `json:"bio"`
	PaymentGateway    string    `json:"payment_gateway"`
	StripeAccountID   string    `json:"stripe_account_id"`
	RazorpayAccountID string    `json:"razorpay_account_id"`
	UPIID             string    `json:"upi_id"`
}

func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s CreatorSeed) toModel() (*model.CreatorProfile, error) {
	username, ok := model.NormalizeUsername(s.Username)
	if !ok {
		return nil, fmt.Errorf("seed %q: invalid username", s.Username)
	}
	preferred := ""
	if s.PaymentGateway != "" {
		name, ok := gateways.ParseName(s.PaymentGateway)
		if !ok {
			return nil, fmt.Errorf("seed %q: unknown payment_gateway %q", s.Username, s.PaymentGateway)
		}
		preferred = string(name)
	}
	return &model.CreatorProfile{
		ID:                s.ID,
		Username:          &username,
		Email:             opt(s.Email),
		DisplayName:       opt(s.DisplayName),
		Bio:               opt(s.Bio),
		PaymentGateway:    opt(preferred),
		StripeAccountID:   opt(s.StripeAccountID),
		RazorpayAccountID: opt(s.RazorpayAccountID),
		UPIID:             opt(s.UPIID),
	}, nil
}

// SeedCreatorsFromJSON inserts every creator in the file. Rows whose
// username already exists are skipped, so the seed can be rerun.
func SeedCreatorsFromJSON(ctx context.Context, db *gorm.DB, filePath string, log *slog.Logger) (int, error) {
	log.Info("reading creator seed", "file", filePath)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var inputs []CreatorSeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	inserted := 0
	for _, in := range inputs {
		row, err := in.toModel()
		if err != nil {
			return inserted, err
		}
		res := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
			Create(row)
		if res.Error != nil {
			return inserted, fmt.Errorf("insert creator %s: %w", *row.Username, res.Error)
		}
		if res.RowsAffected == 0 {
			log.Info("creator exists, skipped", "username", *row.Username)
			continue
		}
		inserted++
	}
	log.Info("creator seed done", "inserted", inserted, "total", len(inputs))
	return inserted, nil
}
