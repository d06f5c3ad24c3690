package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/payments/model"
	"sekolahku_backend/internals/features/finance/payments/service"
	"sekolahku_backend/internals/helpers/dbtime"
)

// POST /payments
type CreatePaymentRequest struct {
	StudentBillID uuid.UUID        `json:"student_bill_id" validate:"required"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Method        string           `json:"method" validate:"required,oneof=cash bank_transfer qris other"`
	PaymentDate   string           `json:"payment_date,omitempty"`
	Notes         *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ToInput: payment_date boleh "YYYY-MM-DD" (tengah hari WIB) atau RFC3339.
func (r CreatePaymentRequest) ToInput(receivedBy *uuid.UUID) (service.RecordInput, error) {
	in := service.RecordInput{
		StudentBillID: r.StudentBillID,
		Amount:        r.Amount,
		Method:        model.PaymentMethod(r.Method),
		ReceivedBy:    receivedBy,
	}
	if r.Notes != nil {
		n := strings.TrimSpace(*r.Notes)
		if n != "" {
			in.Notes = &n
		}
	}
	if s := strings.TrimSpace(r.PaymentDate); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			in.PaidAt = t
		} else {
			d, err := dbtime.ParseDate(s)
			if err != nil {
				return service.RecordInput{}, err
			}
			in.PaidAt = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, dbtime.SchoolLocation())
		}
	}
	return in, nil
}

type PaymentResponse struct {
	PaymentID      uuid.UUID           `json:"payment_id"`
	StudentBillID  uuid.UUID           `json:"student_bill_id"`
	Amount         decimal.Decimal     `json:"amount"`
	Method         model.PaymentMethod `json:"method"`
	PaymentDate    time.Time           `json:"payment_date"`
	Notes          *string             `json:"notes,omitempty"`
	ReceivedBy     *uuid.UUID          `json:"received_by,omitempty"`
	GatewayOrderID *string             `json:"gateway_order_id,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

func FromModel(m *model.PaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:      m.PaymentID,
		StudentBillID:  m.PaymentStudentBillID,
		Amount:         m.PaymentAmount,
		Method:         m.PaymentMethod,
		PaymentDate:    m.PaymentDate,
		Notes:          m.PaymentNotes,
		ReceivedBy:     m.PaymentReceivedBy,
		GatewayOrderID: m.PaymentGatewayOrderID,
		CreatedAt:      m.PaymentCreatedAt,
	}
}

// PaymentRow: hasil join payments + student_bills + students + bills (GET /payments).
type PaymentRow struct {
	PaymentID      uuid.UUID       `json:"payment_id"`
	StudentBillID  uuid.UUID       `json:"student_bill_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	PaymentDate    time.Time       `json:"payment_date"`
	Notes          *string         `json:"notes,omitempty"`
	ReceivedBy     *uuid.UUID      `json:"received_by,omitempty"`
	GatewayOrderID *string         `json:"gateway_order_id,omitempty"`

	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	StudentNIS  string    `json:"student_nis"`
	BillCode    string    `json:"bill_code"`
	BillName    string    `json:"bill_name"`
	DueDate     time.Time `json:"due_date"`
}
