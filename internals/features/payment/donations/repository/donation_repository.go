package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/payment/donations/model"
)

type DonationRepository struct {
	DB *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{DB: db}
}

func (r *DonationRepository) WithTx(tx *gorm.DB) *DonationRepository {
	return &DonationRepository{DB: tx}
}

// Insert stores d unless a donation with the same external payment id already
// exists. inserted is false for such duplicates, which are not an error.
func (r *DonationRepository) Insert(ctx context.Context, d *model.Donation) (inserted bool, err error) {
	if d.DonationAmountCents <= 0 {
		return false, apperrors.Validation("donation amount must be positive")
	}
	if d.DonationExternalPaymentID == "" {
		return false, apperrors.Validation("external payment id is required")
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "donation_external_payment_id"}},
			DoNothing: true,
		}).
		Create(d)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListRecentByCreator returns the newest donations first.
func (r *DonationRepository) ListRecentByCreator(ctx context.Context, creatorID uuid.UUID, limit int) ([]model.Donation, error) {
	var rows []model.Donation
	err := r.DB.WithContext(ctx).
		Where("donation_creator_id = ?", creatorID).
		Order("donation_created_at DESC").
		Order("donation_id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
