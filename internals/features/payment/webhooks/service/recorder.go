package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	profileRepo "sprout_backend/internals/features/creators/profiles/repository"
	donationModel "sprout_backend/internals/features/payment/donations/model"
	donationRepo "sprout_backend/internals/features/payment/donations/repository"
	"sprout_backend/internals/features/payment/gateways"
	payoutModel "sprout_backend/internals/features/payment/payouts/model"
	payoutRepo "sprout_backend/internals/features/payment/payouts/repository"
	"sprout_backend/internals/features/payment/webhooks/model"
	"sprout_backend/internals/metrics"
)

type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeFailed    Outcome = "failed"
	OutcomeRejected  Outcome = "rejected"
)

// Recorder turns verified webhook deliveries into ledger rows.
type Recorder struct {
	DB        *gorm.DB
	Profiles  *profileRepo.ProfileRepository
	Donations *donationRepo.DonationRepository
	Payouts   *payoutRepo.PayoutRepository
	Log       *slog.Logger
}

func NewRecorder(db *gorm.DB, log *slog.Logger) *Recorder {
	return &Recorder{
		DB:        db,
		Profiles:  profileRepo.NewProfileRepository(db),
		Donations: donationRepo.NewDonationRepository(db),
		Payouts:   payoutRepo.NewPayoutRepository(db),
		Log:       log,
	}
}

// Handle verifies payload, logs the delivery and books a completed payment.
// Verification errors are returned untouched; anything later comes back
// wrapped so the caller can answer with a generic failure.
func (r *Recorder) Handle(ctx context.Context, gw gateways.PaymentGateway, payload []byte, signature string) (Outcome, error) {
	name := string(gw.Name())
	log := r.Log.With("gateway", name)

	if err := gw.VerifyWebhook(payload, signature); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(name, string(OutcomeRejected)).Inc()
		return OutcomeRejected, err
	}

	ev, parseErr := gw.ParseCompletedPayment(payload)

	event := &model.PaymentGatewayEvent{
		GatewayEventProvider: name,
		GatewayEventPayload:  rawJSON(payload),
	}
	if ev != nil {
		event.GatewayEventType = optional(ev.Type)
		event.GatewayEventExternalID = optional(ev.ID)
		if ev.Payment != nil {
			event.GatewayEventExternalRef = optional(ev.Payment.PaymentID)
		}
	}
	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		log.Error("store gateway event failed", "err", err)
		return r.done(name, OutcomeFailed), fmt.Errorf("store gateway event: %w", err)
	}

	if parseErr != nil {
		log.Error("parse webhook failed", "event_id", event.GatewayEventID, "err", parseErr)
		r.finish(ctx, event, model.GatewayEventStatusFailed, parseErr)
		return r.done(name, OutcomeFailed), parseErr
	}

	p := ev.Payment
	if p == nil {
		log.Debug("webhook ignored", "type", ev.Type)
		r.finish(ctx, event, model.GatewayEventStatusIgnored, nil)
		return r.done(name, OutcomeIgnored), nil
	}
	if !p.Recordable() {
		log.Warn("completed payment not recordable", "payment_id", p.PaymentID, "amount", p.AmountCents, "has_creator", p.CreatorID != nil)
		r.finish(ctx, event, model.GatewayEventStatusIgnored, errors.New("missing amount or creator id"))
		return r.done(name, OutcomeIgnored), nil
	}

	outcome, err := r.record(ctx, gw, p)
	if err != nil {
		log.Error("record donation failed", "payment_id", p.PaymentID, "err", err)
		r.finish(ctx, event, model.GatewayEventStatusFailed, err)
		return r.done(name, OutcomeFailed), err
	}

	status := model.GatewayEventStatusProcessed
	if outcome == OutcomeDuplicate {
		status = model.GatewayEventStatusDuplicate
		log.Info("duplicate delivery", "payment_id", p.PaymentID)
	} else {
		log.Info("donation recorded", "payment_id", p.PaymentID, "creator_id", p.CreatorID.String(), "amount", p.AmountCents)
	}
	r.finish(ctx, event, status, nil)
	return r.done(name, outcome), nil
}

// record inserts the donation and, for gateways settled by hand, the payout
// entry in one transaction. A payout is queued only for a fresh donation.
func (r *Recorder) record(ctx context.Context, gw gateways.PaymentGateway, p *gateways.CompletedPayment) (Outcome, error) {
	outcome := OutcomeProcessed
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d := &donationModel.Donation{
			DonationCreatorID:         *p.CreatorID,
			DonationAmountCents:       p.AmountCents,
			DonationCharityPercentage: p.CharityPercentage,
			DonationCurrency:          strings.ToLower(p.Currency),
			DonationGateway:           string(p.Gateway),
			DonationExternalPaymentID: p.PaymentID,
			DonationMetadata:          donationModel.MetadataFrom(p.Metadata),
		}
		inserted, err := r.Donations.WithTx(tx).Insert(ctx, d)
		if err != nil {
			return fmt.Errorf("insert donation: %w", err)
		}
		if !inserted {
			outcome = OutcomeDuplicate
			return nil
		}
		if !gw.QueuesManualPayouts() {
			return nil
		}

		upi, err := r.Profiles.WithTx(tx).PayoutAddress(ctx, *p.CreatorID)
		if err != nil {
			return fmt.Errorf("read payout address: %w", err)
		}
		if upi == "" {
			return nil
		}
		err = r.Payouts.WithTx(tx).Enqueue(ctx, &payoutModel.PayoutQueueEntry{
			PayoutCreatorID:           *p.CreatorID,
			PayoutDonationID:          d.DonationID,
			PayoutDonationAmountCents: p.AmountCents,
			PayoutUPIID:               upi,
		})
		if err != nil {
			return fmt.Errorf("enqueue payout: %w", err)
		}
		return nil
	})
	if err != nil {
		return OutcomeFailed, err
	}
	return outcome, nil
}

func (r *Recorder) finish(ctx context.Context, ev *model.PaymentGatewayEvent, status model.GatewayEventStatus, cause error) {
	now := time.Now()
	cols := map[string]any{
		"gateway_event_status":       status,
		"gateway_event_processed_at": now,
	}
	if cause != nil {
		cols["gateway_event_error"] = cause.Error()
	}
	err := r.DB.WithContext(ctx).
		Model(&model.PaymentGatewayEvent{}).
		Where("gateway_event_id = ?", ev.GatewayEventID).
		Updates(cols).Error
	if err != nil {
		r.Log.Warn("update gateway event failed", "event_id", ev.GatewayEventID, "err", err)
	}
}

func (r *Recorder) done(gateway string, o Outcome) Outcome {
	metrics.WebhookEventsTotal.WithLabelValues(gateway, string(o)).Inc()
	return o
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// rawJSON keeps the body only when it is valid JSON; the column is jsonb.
func rawJSON(b []byte) datatypes.JSON {
	if !sonic.Valid(b) {
		return nil
	}
	return datatypes.JSON(append([]byte(nil), b...))
}
