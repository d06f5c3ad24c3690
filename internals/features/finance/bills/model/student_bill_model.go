// file: internals/features/finance/bills/model/student_bill_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StudentBillStatus string

const (
	StudentBillPending   StudentBillStatus = "pending"
	StudentBillPaid      StudentBillStatus = "paid"
	StudentBillOverdue   StudentBillStatus = "overdue"
	StudentBillCancelled StudentBillStatus = "cancelled"
)

func (s StudentBillStatus) Valid() bool {
	switch s {
	case StudentBillPending, StudentBillPaid, StudentBillOverdue, StudentBillCancelled:
		return true
	}
	return false
}

// Payable: hanya pending/overdue yang bisa dibayar.
func (s StudentBillStatus) Payable() bool {
	return s == StudentBillPending || s == StudentBillOverdue
}

/*
StudentBillModel → tabel `student_bills`.

Satu baris = tagihan satu siswa untuk satu template di satu bulan.
due_date hasil generate selalu tanggal 1. Kombinasi (siswa, tagihan, due_date)
dijaga unik oleh uq_student_bills_student_bill_month.
*/
type StudentBillModel struct {
	StudentBillID uuid.UUID `gorm:"column:student_bill_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_bill_id"`

	StudentBillStudentID uuid.UUID `gorm:"column:student_bill_student_id;type:uuid;not null;uniqueIndex:uq_student_bills_student_bill_month,priority:1" json:"student_bill_student_id"`
	StudentBillBillID    uuid.UUID `gorm:"column:student_bill_bill_id;type:uuid;not null;index;uniqueIndex:uq_student_bills_student_bill_month,priority:2" json:"student_bill_bill_id"`
	StudentBillDueDate   time.Time `gorm:"column:student_bill_due_date;type:date;not null;index;uniqueIndex:uq_student_bills_student_bill_month,priority:3" json:"student_bill_due_date"`

	StudentBillAmount decimal.Decimal   `gorm:"column:student_bill_amount;type:decimal(14,2);not null" json:"student_bill_amount"`
	StudentBillStatus StudentBillStatus `gorm:"column:student_bill_status;type:varchar(16);not null;default:'pending';index" json:"student_bill_status"`
	StudentBillPaidAt *time.Time        `gorm:"column:student_bill_paid_at;type:timestamptz" json:"student_bill_paid_at,omitempty"`
	StudentBillNote   *string           `gorm:"column:student_bill_note;type:text" json:"student_bill_note,omitempty"`

	StudentBillCreatedAt time.Time `gorm:"column:student_bill_created_at;type:timestamptz;not null;default:now()" json:"student_bill_created_at"`
	StudentBillUpdatedAt time.Time `gorm:"column:student_bill_updated_at;type:timestamptz;not null;default:now()" json:"student_bill_updated_at"`
}

func (StudentBillModel) TableName() string { return "student_bills" }

func (m *StudentBillModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentBillID == uuid.Nil {
		m.StudentBillID = uuid.New()
	}
	if m.StudentBillStatus == "" {
		m.StudentBillStatus = StudentBillPending
	}
	now := time.Now()
	if m.StudentBillCreatedAt.IsZero() {
		m.StudentBillCreatedAt = now
	}
	m.StudentBillUpdatedAt = now
	return nil
}

func (m *StudentBillModel) BeforeUpdate(tx *gorm.DB) error {
	m.StudentBillUpdatedAt = time.Now()
	return nil
}
