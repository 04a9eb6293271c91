package service

import (
	"context"

	"github.com/google/uuid"

	"sprout_backend/internals/features/payment/donations/dto"
	"sprout_backend/internals/features/payment/donations/model"
	"sprout_backend/internals/features/payment/fees"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

type DonationLister interface {
	ListRecentByCreator(ctx context.Context, creatorID uuid.UUID, limit int) ([]model.Donation, error)
}

// Ledger aggregates a creator's recent donations for the dashboard.
type Ledger struct {
	repo         DonationLister
	defaultLimit int
}

func NewLedger(repo DonationLister, defaultLimit int) *Ledger {
	if defaultLimit <= 0 || defaultLimit > MaxRecentLimit {
		defaultLimit = DefaultRecentLimit
	}
	return &Ledger{repo: repo, defaultLimit: defaultLimit}
}

// ClampLimit maps a requested page size onto 1..MaxRecentLimit, using the
// ledger default for non-positive input.
func (l *Ledger) ClampLimit(limit int) int {
	if limit <= 0 {
		return l.defaultLimit
	}
	if limit > MaxRecentLimit {
		return MaxRecentLimit
	}
	return limit
}

func (l *Ledger) Summary(ctx context.Context, creatorID uuid.UUID, limit int) (*dto.SummaryResponse, error) {
	rows, err := l.repo.ListRecentByCreator(ctx, creatorID, l.ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	return Summarize(rows), nil
}

// Summarize totals rows; the charity total is the sum of per-donation floors.
func Summarize(rows []model.Donation) *dto.SummaryResponse {
	var total, charity int64
	for i := range rows {
		total += rows[i].DonationAmountCents
		charity += rows[i].CharityCents()
	}
	return &dto.SummaryResponse{
		Donations:     dto.FromModels(rows),
		Count:         len(rows),
		TotalCents:    total,
		CharityCents:  charity,
		TotalAmount:   fees.ToMajor(total),
		CharityAmount: fees.ToMajor(charity),
	}
}
