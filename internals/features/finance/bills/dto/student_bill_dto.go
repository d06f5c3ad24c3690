package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StudentBillRow: hasil join student_bills + students + bills untuk list kasir.
type StudentBillRow struct {
	StudentBillID      uuid.UUID       `json:"student_bill_id"`
	StudentBillAmount  decimal.Decimal `json:"student_bill_amount"`
	StudentBillDueDate time.Time       `json:"student_bill_due_date"`
	StudentBillStatus  string          `json:"student_bill_status"`
	StudentBillPaidAt  *time.Time      `json:"student_bill_paid_at,omitempty"`
	StudentBillNote    *string         `json:"student_bill_note,omitempty"`

	StudentID   uuid.UUID `json:"student_id"`
	StudentNIS  string    `json:"student_nis"`
	StudentName string    `json:"student_name"`

	BillID   uuid.UUID `json:"bill_id"`
	BillCode string    `json:"bill_code"`
	BillName string    `json:"bill_name"`
}

type CancelStudentBillRequest struct {
	Note string `json:"note" validate:"max=500"`
}
