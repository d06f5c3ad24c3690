// file: internals/features/finance/cashbook/model/cashbook_entry_model.go
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashbookKind string

const (
	CashbookIncome  CashbookKind = "income"
	CashbookExpense CashbookKind = "expense"
)

func (k CashbookKind) Valid() bool { return k == CashbookIncome || k == CashbookExpense }

// Kategori bawaan untuk pemasukan dari pembayaran tagihan.
const CategoryStudentPayment = "student_payment"

var (
	ErrCashbookAmount = errors.New("nominal kas harus lebih dari 0")
	ErrCashbookKind   = errors.New("jenis kas harus income atau expense")

	ErrReservedCategory = errors.New("kategori student_payment hanya untuk pembayaran tagihan")
)

/*
CashbookEntryModel → tabel `cashbook_entries`.

Pemasukan dari pembayaran tagihan selalu punya payment_id (unik), jadi satu
pembayaran tidak pernah tercatat dua kali di buku kas.
*/
type CashbookEntryModel struct {
	CashbookEntryID uuid.UUID `gorm:"column:cashbook_entry_id;type:uuid;default:gen_random_uuid();primaryKey" json:"cashbook_entry_id"`

	CashbookEntryDate        time.Time       `gorm:"column:cashbook_entry_date;type:date;not null;index" json:"cashbook_entry_date"`
	CashbookEntryKind        CashbookKind    `gorm:"column:cashbook_entry_kind;type:varchar(16);not null;index" json:"cashbook_entry_kind"`
	CashbookEntryCategory    string          `gorm:"column:cashbook_entry_category;type:varchar(64);not null" json:"cashbook_entry_category"`
	CashbookEntryAmount      decimal.Decimal `gorm:"column:cashbook_entry_amount;type:decimal(14,2);not null" json:"cashbook_entry_amount"`
	CashbookEntryDescription *string         `gorm:"column:cashbook_entry_description;type:text" json:"cashbook_entry_description,omitempty"`

	CashbookEntryPaymentID *uuid.UUID `gorm:"column:cashbook_entry_payment_id;type:uuid;uniqueIndex" json:"cashbook_entry_payment_id,omitempty"`
	CashbookEntryCreatedBy *uuid.UUID `gorm:"column:cashbook_entry_created_by;type:uuid" json:"cashbook_entry_created_by,omitempty"`

	CashbookEntryCreatedAt time.Time `gorm:"column:cashbook_entry_created_at;type:timestamptz;not null;default:now()" json:"cashbook_entry_created_at"`
}

func (CashbookEntryModel) TableName() string { return "cashbook_entries" }

func (m *CashbookEntryModel) Validate() error {
	if !m.CashbookEntryKind.Valid() {
		return ErrCashbookKind
	}
	if !m.CashbookEntryAmount.IsPositive() {
		return ErrCashbookAmount
	}
	m.CashbookEntryCategory = strings.TrimSpace(m.CashbookEntryCategory)
	if m.CashbookEntryCategory == "" {
		m.CashbookEntryCategory = "umum"
	}
	return nil
}

func (m *CashbookEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.CashbookEntryID == uuid.Nil {
		m.CashbookEntryID = uuid.New()
	}
	if m.CashbookEntryCreatedAt.IsZero() {
		m.CashbookEntryCreatedAt = time.Now()
	}
	return nil
}
