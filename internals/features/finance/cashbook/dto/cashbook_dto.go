package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/cashbook/model"
	"sekolahku_backend/internals/helpers/dbtime"
)

// POST /cashbook (entri manual; pemasukan pembayaran dibuat otomatis)
type CreateEntryRequest struct {
	EntryDate   string          `json:"entry_date" validate:"required"`
	Kind        string          `json:"kind" validate:"required,oneof=income expense"`
	Category    string          `json:"category" validate:"omitempty,max=64"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r CreateEntryRequest) ToModel(createdBy *uuid.UUID) (*model.CashbookEntryModel, error) {
	d, err := dbtime.ParseDate(r.EntryDate)
	if err != nil {
		return nil, err
	}
	m := &model.CashbookEntryModel{
		CashbookEntryDate:      d,
		CashbookEntryKind:      model.CashbookKind(r.Kind),
		CashbookEntryCategory:  strings.ToLower(strings.TrimSpace(r.Category)),
		CashbookEntryAmount:    r.Amount,
		CashbookEntryCreatedBy: createdBy,
	}
	if r.Description != nil {
		if s := strings.TrimSpace(*r.Description); s != "" {
			m.CashbookEntryDescription = &s
		}
	}
	if m.CashbookEntryCategory == model.CategoryStudentPayment {
		return nil, model.ErrReservedCategory
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

type EntryResponse struct {
	ID          uuid.UUID          `json:"id"`
	Date        string             `json:"date"`
	Kind        model.CashbookKind `json:"kind"`
	Category    string             `json:"category"`
	Amount      decimal.Decimal    `json:"amount"`
	Description *string            `json:"description,omitempty"`
	PaymentID   *uuid.UUID         `json:"payment_id,omitempty"`
	CreatedBy   *uuid.UUID         `json:"created_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func FromModel(m *model.CashbookEntryModel) EntryResponse {
	return EntryResponse{
		ID:          m.CashbookEntryID,
		Date:        m.CashbookEntryDate.Format(dbtime.DateLayout),
		Kind:        m.CashbookEntryKind,
		Category:    m.CashbookEntryCategory,
		Amount:      m.CashbookEntryAmount,
		Description: m.CashbookEntryDescription,
		PaymentID:   m.CashbookEntryPaymentID,
		CreatedBy:   m.CashbookEntryCreatedBy,
		CreatedAt:   m.CashbookEntryCreatedAt,
	}
}

func FromModels(rows []model.CashbookEntryModel) []EntryResponse {
	out := make([]EntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
