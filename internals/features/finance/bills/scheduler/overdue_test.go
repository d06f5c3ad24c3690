package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/finance/bills/model"
	"sekolahku_backend/internals/features/finance/bills/store"
)

func TestRunOverdueUsesSchoolMonth(t *testing.T) {
	s := store.NewMemoryStore()
	put := func(m time.Month, st model.StudentBillStatus) uuid.UUID {
		return s.PutStudentBill(model.StudentBillModel{
			StudentBillStudentID: uuid.New(),
			StudentBillBillID:    uuid.New(),
			StudentBillDueDate:   time.Date(2024, m, 1, 0, 0, 0, 0, time.UTC),
			StudentBillAmount:    decimal.NewFromInt(100000),
			StudentBillStatus:    st,
		}).StudentBillID
	}
	sep := put(time.September, model.StudentBillPending)
	oct := put(time.October, model.StudentBillPending)
	nov := put(time.November, model.StudentBillPending)
	paid := put(time.September, model.StudentBillPaid)

	// 18:00 UTC 31 Okt = 01:00 WIB 1 Nov → Oktober sudah lewat
	n, err := RunOverdue(context.Background(), s, time.Date(2024, time.October, 31, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	status := func(id uuid.UUID) model.StudentBillStatus {
		sb, ok := s.StudentBill(id)
		require.True(t, ok)
		return sb.StudentBillStatus
	}
	assert.Equal(t, model.StudentBillOverdue, status(sep))
	assert.Equal(t, model.StudentBillOverdue, status(oct))
	assert.Equal(t, model.StudentBillPending, status(nov))
	assert.Equal(t, model.StudentBillPaid, status(paid))
}

func TestRegisterOverdueJob(t *testing.T) {
	c := cron.New()
	_, err := RegisterOverdueJob(c, "", store.NewMemoryStore())
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = RegisterOverdueJob(c, "bukan cron", store.NewMemoryStore())
	assert.Error(t, err)
}
