package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
  payment_gateway_events = log of verified webhook deliveries.
  - One row per delivery, so a retried event appears more than once.
  - Written only after the signature checks out.
*/

type GatewayEventStatus string

const (
	GatewayEventStatusReceived  GatewayEventStatus = "received"
	GatewayEventStatusProcessed GatewayEventStatus = "processed"
	GatewayEventStatusDuplicate GatewayEventStatus = "duplicate"
	GatewayEventStatusIgnored   GatewayEventStatus = "ignored"
	GatewayEventStatusFailed    GatewayEventStatus = "failed"
)

type PaymentGatewayEvent struct {
	GatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`

	// Provider & event identity
	GatewayEventProvider    string  `gorm:"column:gateway_event_provider;size:20;not null;index" json:"gateway_event_provider"`
	GatewayEventType        *string `gorm:"column:gateway_event_type;size:100" json:"gateway_event_type"`
	GatewayEventExternalID  *string `gorm:"column:gateway_event_external_id;size:100" json:"gateway_event_external_id"`
	GatewayEventExternalRef *string `gorm:"column:gateway_event_external_ref;size:100;index" json:"gateway_event_external_ref"`

	// Raw body, kept for replay
	GatewayEventPayload datatypes.JSON `gorm:"column:gateway_event_payload" json:"gateway_event_payload"`

	GatewayEventStatus GatewayEventStatus `gorm:"column:gateway_event_status;size:20;not null;default:'received'" json:"gateway_event_status"`
	GatewayEventError  *string            `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error"`

	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;autoCreateTime" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at"`
}

func (PaymentGatewayEvent) TableName() string { return "payment_gateway_events" }

func (e *PaymentGatewayEvent) BeforeCreate(tx *gorm.DB) error {
	if e.GatewayEventID == uuid.Nil {
		e.GatewayEventID = uuid.New()
	}
	if e.GatewayEventStatus == "" {
		e.GatewayEventStatus = GatewayEventStatusReceived
	}
	return nil
}
