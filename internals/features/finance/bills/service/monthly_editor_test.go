package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/finance/bills/model"
	"sekolahku_backend/internals/features/finance/bills/store"
	classModel "sekolahku_backend/internals/features/school/classes/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
)

func amounts(vals ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(vals))
	for _, v := range vals {
		out = append(out, decimal.NewFromInt(v))
	}
	return out
}

func TestRepresentativeAmount(t *testing.T) {
	tests := []struct {
		name     string
		in       []decimal.Decimal
		want     int64
		distinct int
	}{
		{name: "majority wins", in: amounts(100, 100, 150), want: 100, distinct: 2},
		{name: "single value", in: amounts(250), want: 250, distinct: 1},
		{name: "tie picks smaller", in: amounts(150, 100), want: 100, distinct: 2},
		{name: "scale does not split buckets", in: []decimal.Decimal{decimal.RequireFromString("100.00"), decimal.NewFromInt(100), decimal.NewFromInt(90)}, want: 100, distinct: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, distinct := RepresentativeAmount(tt.in)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
			assert.Equal(t, tt.distinct, distinct)
		})
	}

	zero, n := RepresentativeAmount(nil)
	assert.True(t, zero.IsZero())
	assert.Zero(t, n)
}

func putRow(f *fixture, student studentModel.StudentModel, due time.Time, amount int64, status model.StudentBillStatus) model.StudentBillModel {
	return f.store.PutStudentBill(model.StudentBillModel{
		StudentBillStudentID: student.StudentID,
		StudentBillBillID:    f.bill.BillID,
		StudentBillAmount:    decimal.NewFromInt(amount),
		StudentBillDueDate:   due,
		StudentBillStatus:    status,
	})
}

func TestMonthlyEditor_LoadActiveYear(t *testing.T) {
	f := newFixture(t, 3)
	f.store.SetActiveYear(&store.ActiveYear{
		Code:      "2024/2025",
		StartDate: day(2024, time.July, 15),
		EndDate:   day(2025, time.June, 30),
	})
	jul := day(2024, time.July, 1)
	putRow(f, f.student[0], jul, 100, model.StudentBillPending)
	putRow(f, f.student[1], jul, 100, model.StudentBillPaid)
	putRow(f, f.student[2], jul, 150, model.StudentBillPending)
	// di luar tahun ajaran
	putRow(f, f.student[0], day(2025, time.July, 1), 999, model.StudentBillPending)

	view, err := NewMonthlyEditor(f.store).Load(context.Background(), f.bill)
	require.NoError(t, err)
	assert.Equal(t, SourceActiveYear, view.Source)
	require.Len(t, view.Months, 12)

	first := view.Months[0]
	assert.Equal(t, jul, first.DueDate)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 3, first.Rows)
	assert.Equal(t, 2, first.Distinct)
	assert.True(t, first.Generated)

	// bulan tanpa baris → nominal template
	aug := view.Months[1]
	assert.Equal(t, day(2024, time.August, 1), aug.DueDate)
	assert.True(t, aug.Amount.Equal(f.bill.BillAmount))
	assert.False(t, aug.Generated)
	assert.Equal(t, day(2025, time.June, 1), view.Months[11].DueDate)
}

func TestMonthlyEditor_LoadWithoutActiveYear(t *testing.T) {
	f := newFixture(t, 2)
	putRow(f, f.student[0], day(2024, time.March, 1), 200, model.StudentBillPending)
	putRow(f, f.student[1], day(2024, time.March, 1), 200, model.StudentBillPending)
	putRow(f, f.student[0], day(2024, time.January, 1), 180, model.StudentBillPending)

	view, err := NewMonthlyEditor(f.store).Load(context.Background(), f.bill)
	require.NoError(t, err)
	assert.Equal(t, SourceExistingRows, view.Source)
	assert.Nil(t, view.ActiveYear)
	require.Len(t, view.Months, 2)
	assert.Equal(t, day(2024, time.January, 1), view.Months[0].DueDate)
	assert.True(t, view.Months[0].Amount.Equal(decimal.NewFromInt(180)))
	assert.Equal(t, day(2024, time.March, 1), view.Months[1].DueDate)
	assert.Equal(t, 2, view.Months[1].Rows)

	empty := newFixture(t, 0)
	view, err = NewMonthlyEditor(empty.store).Load(context.Background(), empty.bill)
	require.NoError(t, err)
	assert.Empty(t, view.Months)
}

func TestMonthlyEditor_SaveScopesByTarget(t *testing.T) {
	f := newFixture(t, 2)
	other := f.store.PutClass(classModel.ClassModel{ClassName: "8B", ClassLevel: 8})
	oid := other.ClassID
	outsider := f.store.PutStudent(studentModel.StudentModel{StudentName: "Lain", StudentClassID: &oid})

	month := day(2024, time.October, 1)
	a := putRow(f, f.student[0], month, 100, model.StudentBillPending)
	b := putRow(f, f.student[1], month, 100, model.StudentBillOverdue)
	paid := putRow(f, f.student[1], day(2024, time.November, 1), 100, model.StudentBillPaid)
	out := putRow(f, outsider, month, 100, model.StudentBillPending)

	cid := f.class.ClassID
	res, err := NewMonthlyEditor(f.store).Save(context.Background(), f.bill.BillID, []MonthlyEdit{
		{DueDate: day(2024, time.November, 1), Amount: decimal.NewFromInt(175)},
		{DueDate: day(2024, time.October, 20), Amount: decimal.NewFromInt(175)},
	}, EditTarget{ClassID: &cid})
	require.NoError(t, err)
	assert.Equal(t, 2, res.MonthsApplied)
	assert.EqualValues(t, 2, res.RowsAffected)

	for _, id := range []model.StudentBillModel{a, b} {
		got, _ := f.store.StudentBill(id.StudentBillID)
		assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(175)))
		assert.Equal(t, id.StudentBillStatus, got.StudentBillStatus)
		assert.Equal(t, month, got.StudentBillDueDate)
	}
	got, _ := f.store.StudentBill(out.StudentBillID)
	assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(100)), "outside filter")
	got, _ = f.store.StudentBill(paid.StudentBillID)
	assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(100)), "paid rows keep their amount")
}

func TestMonthlyEditor_SaveByLevel(t *testing.T) {
	f := newFixture(t, 1)
	other := f.store.PutClass(classModel.ClassModel{ClassName: "8B", ClassLevel: 8})
	oid := other.ClassID
	outsider := f.store.PutStudent(studentModel.StudentModel{StudentName: "Lain", StudentClassID: &oid})
	month := day(2024, time.October, 1)
	in := putRow(f, f.student[0], month, 100, model.StudentBillPending)
	out := putRow(f, outsider, month, 100, model.StudentBillPending)

	level := 7
	_, err := NewMonthlyEditor(f.store).Save(context.Background(), f.bill.BillID,
		[]MonthlyEdit{{DueDate: month, Amount: decimal.NewFromInt(120)}}, EditTarget{Level: &level})
	require.NoError(t, err)

	got, _ := f.store.StudentBill(in.StudentBillID)
	assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(120)))
	got, _ = f.store.StudentBill(out.StudentBillID)
	assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(100)))
}

func TestMonthlyEditor_SaveAbortsOnFirstFailure(t *testing.T) {
	f := newFixture(t, 1)
	jan, feb, mar := day(2025, time.January, 1), day(2025, time.February, 1), day(2025, time.March, 1)
	rows := []model.StudentBillModel{
		putRow(f, f.student[0], jan, 100, model.StudentBillPending),
		putRow(f, f.student[0], feb, 100, model.StudentBillPending),
		putRow(f, f.student[0], mar, 100, model.StudentBillPending),
	}
	boom := errors.New("timeout")
	f.store.UpdateMonthErr = func(due time.Time) error {
		if due.Equal(feb) {
			return boom
		}
		return nil
	}

	res, err := NewMonthlyEditor(f.store).Save(context.Background(), f.bill.BillID, []MonthlyEdit{
		{DueDate: mar, Amount: decimal.NewFromInt(130)},
		{DueDate: jan, Amount: decimal.NewFromInt(110)},
		{DueDate: feb, Amount: decimal.NewFromInt(120)},
	}, EditTarget{})
	require.ErrorIs(t, err, boom)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.MonthsApplied)

	got, _ := f.store.StudentBill(rows[0].StudentBillID)
	assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(110)), "january applied before failure")
	got, _ = f.store.StudentBill(rows[2].StudentBillID)
	assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(100)), "march never reached")
}

func TestMonthlyEditor_SaveValidation(t *testing.T) {
	f := newFixture(t, 1)
	e := NewMonthlyEditor(f.store)
	ctx := context.Background()

	_, err := e.Save(ctx, f.bill.BillID, nil, EditTarget{})
	assert.ErrorIs(t, err, ErrNoMonths)

	_, err = e.Save(ctx, f.bill.BillID, []MonthlyEdit{{DueDate: day(2025, time.January, 1), Amount: decimal.Zero}}, EditTarget{})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = e.Save(ctx, f.bill.BillID, []MonthlyEdit{
		{DueDate: day(2025, time.January, 1), Amount: decimal.NewFromInt(1)},
		{DueDate: day(2025, time.January, 9), Amount: decimal.NewFromInt(2)},
	}, EditTarget{})
	assert.ErrorIs(t, err, ErrDuplicateMonth)

	row := putRow(f, f.student[0], day(2025, time.January, 1), 100, model.StudentBillPending)
	_, err = e.Save(ctx, f.bill.BillID, []MonthlyEdit{{DueDate: day(2025, time.January, 1), Amount: decimal.RequireFromString("150000.50")}}, EditTarget{})
	assert.ErrorIs(t, err, ErrFractionalAmount)
	got, _ := f.store.StudentBill(row.StudentBillID)
	assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(100)), "rejected before any write")
}

func TestMonthlyEditor_SaveCoversWholeCalendarMonth(t *testing.T) {
	f := newFixture(t, 2)
	first := putRow(f, f.student[0], day(2024, time.October, 1), 100, model.StudentBillPending)
	mid := putRow(f, f.student[1], day(2024, time.October, 15), 100, model.StudentBillPending)
	next := putRow(f, f.student[0], day(2024, time.November, 1), 100, model.StudentBillPending)

	view, err := NewMonthlyEditor(f.store).Load(context.Background(), f.bill)
	require.NoError(t, err)
	var october *MonthlyRow
	for i := range view.Months {
		if view.Months[i].DueDate.Equal(day(2024, time.October, 1)) {
			october = &view.Months[i]
		}
	}
	require.NotNil(t, october)
	assert.Equal(t, 2, october.Rows)

	res, err := NewMonthlyEditor(f.store).Save(context.Background(), f.bill.BillID,
		[]MonthlyEdit{{DueDate: day(2024, time.October, 1), Amount: decimal.NewFromInt(125)}}, EditTarget{})
	require.NoError(t, err)
	assert.EqualValues(t, october.Rows, res.RowsAffected)

	for _, row := range []model.StudentBillModel{first, mid} {
		got, _ := f.store.StudentBill(row.StudentBillID)
		assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(125)), "row due %s", row.StudentBillDueDate)
		assert.Equal(t, row.StudentBillDueDate, got.StudentBillDueDate)
	}
	got, _ := f.store.StudentBill(next.StudentBillID)
	assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(100)))
}
