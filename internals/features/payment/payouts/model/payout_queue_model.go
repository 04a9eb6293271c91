package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const PayoutStatusPending = "pending"

// PayoutQueueEntry is a manual transfer owed to a creator's UPI address.
// One entry per donation; entries are append only.
type PayoutQueueEntry struct {
	PayoutID uuid.UUID `gorm:"column:payout_id;type:uuid;primaryKey" json:"payout_id"`

	PayoutCreatorID  uuid.UUID `gorm:"column:payout_creator_id;type:uuid;not null;index" json:"payout_creator_id"`
	PayoutDonationID uuid.UUID `gorm:"column:payout_donation_id;type:uuid;not null;uniqueIndex" json:"payout_donation_id"`

	PayoutDonationAmountCents int64  `gorm:"column:payout_donation_amount_cents;not null" json:"payout_donation_amount_cents"`
	PayoutUPIID               string `gorm:"column:payout_upi_id;size:100;not null" json:"payout_upi_id"`
	PayoutStatus              string `gorm:"column:payout_status;size:20;not null;default:'pending'" json:"payout_status"`

	PayoutCreatedAt time.Time `gorm:"column:payout_created_at;autoCreateTime" json:"payout_created_at"`
}

func (PayoutQueueEntry) TableName() string { return "payout_queue" }

func (p *PayoutQueueEntry) BeforeCreate(tx *gorm.DB) error {
	if p.PayoutID == uuid.Nil {
		p.PayoutID = uuid.New()
	}
	if p.PayoutStatus == "" {
		p.PayoutStatus = PayoutStatusPending
	}
	return nil
}
