package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBillModelValidate(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   error
	}{
		{name: "whole rupiah", amount: "150000", want: nil},
		{name: "zero cents scale", amount: "150000.00", want: nil},
		{name: "cents", amount: "150000.50", want: ErrFractionalAmount},
		{name: "zero", amount: "0", want: ErrNonPositiveAmount},
		{name: "negative", amount: "-5000", want: ErrNonPositiveAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BillModel{BillCode: " spp ", BillName: "SPP Bulanan", BillAmount: decimal.RequireFromString(tt.amount)}
			err := m.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				assert.Equal(t, "SPP", m.BillCode)
				assert.Equal(t, BillStatusActive, m.BillStatus)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWholeRupiah(t *testing.T) {
	assert.True(t, WholeRupiah(decimal.NewFromInt(175000)))
	assert.True(t, WholeRupiah(decimal.RequireFromString("175000.000")))
	assert.False(t, WholeRupiah(decimal.RequireFromString("175000.01")))
}
