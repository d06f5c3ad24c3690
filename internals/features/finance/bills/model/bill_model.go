// file: internals/features/finance/bills/model/bill_model.go
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillStatus string

const (
	BillStatusActive   BillStatus = "active"
	BillStatusInactive BillStatus = "inactive"
)

var (
	ErrBillCodeRequired  = errors.New("bill_code wajib diisi")
	ErrBillNameRequired  = errors.New("bill_name wajib diisi")
	ErrNonPositiveAmount = errors.New("nominal tagihan harus lebih dari 0")
	ErrFractionalAmount  = errors.New("nominal tagihan harus rupiah bulat (tanpa sen)")
)

// WholeRupiah: Midtrans hanya menerima gross_amount bulat, jadi nominal tagihan tidak boleh ber-sen.
func WholeRupiah(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// BillModel: template tagihan (SPP, uang gedung, dll) → tabel `bills`.
// bill_code unik hanya secara konvensi.
type BillModel struct {
	BillID uuid.UUID `gorm:"column:bill_id;type:uuid;default:gen_random_uuid();primaryKey" json:"bill_id"`

	BillCode     string          `gorm:"column:bill_code;type:varchar(40);not null;index" json:"bill_code"`
	BillName     string          `gorm:"column:bill_name;type:varchar(160);not null" json:"bill_name"`
	BillAmount   decimal.Decimal `gorm:"column:bill_amount;type:decimal(14,2);not null" json:"bill_amount"`
	BillCategory string          `gorm:"column:bill_category;type:varchar(80)" json:"bill_category"`
	BillStatus   BillStatus      `gorm:"column:bill_status;type:varchar(16);not null;default:'active';index" json:"bill_status"`

	BillAcademicYearID *uuid.UUID `gorm:"column:bill_academic_year_id;type:uuid;index" json:"bill_academic_year_id,omitempty"`

	BillCreatedAt time.Time      `gorm:"column:bill_created_at;type:timestamptz;not null;default:now()" json:"bill_created_at"`
	BillUpdatedAt time.Time      `gorm:"column:bill_updated_at;type:timestamptz;not null;default:now()" json:"bill_updated_at"`
	BillDeletedAt gorm.DeletedAt `gorm:"column:bill_deleted_at;type:timestamptz;index" json:"-"`
}

func (BillModel) TableName() string { return "bills" }

// Normalize: trim + kode huruf besar.
func (m *BillModel) Normalize() {
	m.BillCode = strings.ToUpper(strings.TrimSpace(m.BillCode))
	m.BillName = strings.TrimSpace(m.BillName)
	m.BillCategory = strings.TrimSpace(m.BillCategory)
	if m.BillStatus == "" {
		m.BillStatus = BillStatusActive
	}
}

func (m *BillModel) Validate() error {
	m.Normalize()
	switch {
	case m.BillCode == "":
		return ErrBillCodeRequired
	case m.BillName == "":
		return ErrBillNameRequired
	case !m.BillAmount.IsPositive():
		return ErrNonPositiveAmount
	case !WholeRupiah(m.BillAmount):
		return ErrFractionalAmount
	}
	return nil
}

func (m *BillModel) BeforeCreate(tx *gorm.DB) error {
	if m.BillID == uuid.Nil {
		m.BillID = uuid.New()
	}
	now := time.Now()
	m.BillCreatedAt = now
	m.BillUpdatedAt = now
	return m.Validate()
}

func (m *BillModel) BeforeUpdate(tx *gorm.DB) error {
	m.BillUpdatedAt = time.Now()
	return nil
}
