package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/payment/payouts/model"
)

type PayoutRepository struct {
	DB *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{DB: db}
}

func (r *PayoutRepository) WithTx(tx *gorm.DB) *PayoutRepository {
	return &PayoutRepository{DB: tx}
}

// Enqueue adds a pending payout for a donation. A second entry for the same
// donation is silently skipped.
func (r *PayoutRepository) Enqueue(ctx context.Context, e *model.PayoutQueueEntry) error {
	if strings.TrimSpace(e.PayoutUPIID) == "" {
		return apperrors.Validation("payout address is required")
	}
	if e.PayoutDonationAmountCents <= 0 {
		return apperrors.Validation("payout amount must be positive")
	}
	e.PayoutStatus = model.PayoutStatusPending
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payout_donation_id"}},
			DoNothing: true,
		}).
		Create(e).Error
}

// ListByCreator pages through a creator's payouts, newest first.
func (r *PayoutRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]model.PayoutQueueEntry, error) {
	var rows []model.PayoutQueueEntry
	q := r.DB.WithContext(ctx).
		Where("payout_creator_id = ?", creatorID).
		Order("payout_created_at DESC").
		Order("payout_id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
