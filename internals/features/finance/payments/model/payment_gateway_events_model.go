// file: internals/features/finance/payments/model/payment_gateway_events_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GatewayEventStatus string

const (
	GatewayEventReceived GatewayEventStatus = "received"
	GatewayEventApplied  GatewayEventStatus = "applied"
	GatewayEventIgnored  GatewayEventStatus = "ignored"
	GatewayEventFailed   GatewayEventStatus = "failed"
)

/*
payment_gateway_events = log notifikasi Midtrans.
Setiap notifikasi (termasuk yang ditolak/diabaikan) dicatat apa adanya.
*/
type PaymentGatewayEventModel struct {
	GatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"gateway_event_id"`

	GatewayEventOrderID           string `gorm:"column:gateway_event_order_id;type:varchar(80);index" json:"gateway_event_order_id"`
	GatewayEventTransactionStatus string `gorm:"column:gateway_event_transaction_status;type:varchar(32)" json:"gateway_event_transaction_status"`

	GatewayEventPaymentID *uuid.UUID     `gorm:"column:gateway_event_payment_id;type:uuid" json:"gateway_event_payment_id,omitempty"`
	GatewayEventPayload   datatypes.JSON `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload"`

	GatewayEventStatus GatewayEventStatus `gorm:"column:gateway_event_status;type:varchar(16);not null;default:'received'" json:"gateway_event_status"`
	GatewayEventError  *string            `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error,omitempty"`

	GatewayEventReceivedAt time.Time `gorm:"column:gateway_event_received_at;type:timestamptz;not null;default:now()" json:"gateway_event_received_at"`
}

func (PaymentGatewayEventModel) TableName() string { return "payment_gateway_events" }

func (m *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.GatewayEventID == uuid.Nil {
		m.GatewayEventID = uuid.New()
	}
	if m.GatewayEventReceivedAt.IsZero() {
		m.GatewayEventReceivedAt = time.Now()
	}
	return nil
}
