// file: internals/features/finance/payments/model/payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodQRIS         PaymentMethod = "qris"
	PaymentMethodGateway      PaymentMethod = "gateway"
	PaymentMethodOther        PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodQRIS, PaymentMethodGateway, PaymentMethodOther:
		return true
	}
	return false
}

/*
PaymentModel → tabel `payments`.

Satu tagihan siswa dilunasi oleh tepat satu pembayaran (student_bill_id unik).
Pembayaran via Midtrans menyimpan order_id & payload notifikasi terakhir.
*/
type PaymentModel struct {
	PaymentID            uuid.UUID       `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`
	PaymentStudentBillID uuid.UUID       `gorm:"column:payment_student_bill_id;type:uuid;not null;uniqueIndex" json:"payment_student_bill_id"`
	PaymentAmount        decimal.Decimal `gorm:"column:payment_amount;type:decimal(14,2);not null" json:"payment_amount"`
	PaymentMethod        PaymentMethod   `gorm:"column:payment_method;type:varchar(24);not null" json:"payment_method"`
	PaymentDate          time.Time       `gorm:"column:payment_date;type:timestamptz;not null;index" json:"payment_date"`
	PaymentNotes         *string         `gorm:"column:payment_notes;type:text" json:"payment_notes,omitempty"`

	// user_id kasir; nil untuk pembayaran gateway
	PaymentReceivedBy *uuid.UUID `gorm:"column:payment_received_by;type:uuid" json:"payment_received_by,omitempty"`

	PaymentGatewayOrderID *string        `gorm:"column:payment_gateway_order_id;type:varchar(80);uniqueIndex" json:"payment_gateway_order_id,omitempty"`
	PaymentGatewayPayload datatypes.JSON `gorm:"column:payment_gateway_payload;type:jsonb" json:"payment_gateway_payload,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;type:timestamptz;not null;default:now()" json:"payment_created_at"`
}

func (PaymentModel) TableName() string { return "payments" }

func (m *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	if m.PaymentCreatedAt.IsZero() {
		m.PaymentCreatedAt = time.Now()
	}
	return nil
}
