package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/finance/cashbook/model"
)

func TestCreateEntryRequestToModel(t *testing.T) {
	by := uuid.New()
	desc := "  beli spidol  "
	m, err := CreateEntryRequest{
		EntryDate:   "2024-08-02",
		Kind:        "expense",
		Category:    " ATK ",
		Amount:      decimal.RequireFromString("75000.50"),
		Description: &desc,
	}.ToModel(&by)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.August, 2, 0, 0, 0, 0, time.UTC), m.CashbookEntryDate)
	assert.Equal(t, model.CashbookExpense, m.CashbookEntryKind)
	assert.Equal(t, "atk", m.CashbookEntryCategory)
	assert.Equal(t, "beli spidol", *m.CashbookEntryDescription)
	assert.Nil(t, m.CashbookEntryPaymentID)
}

func TestCreateEntryRequestRejects(t *testing.T) {
	tests := []struct {
		name string
		req  CreateEntryRequest
		err  error
	}{
		{"zero amount", CreateEntryRequest{EntryDate: "2024-08-02", Kind: "income", Amount: decimal.Zero}, model.ErrCashbookAmount},
		{"negative amount", CreateEntryRequest{EntryDate: "2024-08-02", Kind: "expense", Amount: decimal.NewFromInt(-1)}, model.ErrCashbookAmount},
		{"reserved category", CreateEntryRequest{EntryDate: "2024-08-02", Kind: "income", Category: "student_payment", Amount: decimal.NewFromInt(1)}, model.ErrReservedCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToModel(nil)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := CreateEntryRequest{EntryDate: "02/08/2024", Kind: "income", Amount: decimal.NewFromInt(1)}.ToModel(nil)
	assert.Error(t, err)
}

func TestDefaultCategory(t *testing.T) {
	m, err := CreateEntryRequest{EntryDate: "2024-08-02", Kind: "income", Amount: decimal.NewFromInt(10)}.ToModel(nil)
	require.NoError(t, err)
	assert.Equal(t, "umum", m.CashbookEntryCategory)
}
