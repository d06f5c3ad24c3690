package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/finance/bills/model"
	"sekolahku_backend/internals/features/finance/bills/store"
	classModel "sekolahku_backend/internals/features/school/classes/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store   *store.MemoryStore
	bill    model.BillModel
	class   classModel.ClassModel
	empty   classModel.ClassModel
	student []studentModel.StudentModel
}

func newFixture(t *testing.T, students int) *fixture {
	t.Helper()
	s := store.NewMemoryStore()
	f := &fixture{store: s}
	f.bill = s.PutBill(model.BillModel{
		BillCode:   "spp",
		BillName:   "SPP Bulanan",
		BillAmount: decimal.NewFromInt(150000),
	})
	f.class = s.PutClass(classModel.ClassModel{ClassName: "7A", ClassLevel: 7})
	f.empty = s.PutClass(classModel.ClassModel{ClassName: "9C", ClassLevel: 9})
	for i := 0; i < students; i++ {
		cid := f.class.ClassID
		f.student = append(f.student, s.PutStudent(studentModel.StudentModel{
			StudentNIS:     uuid.NewString()[:8],
			StudentName:    "Siswa",
			StudentClassID: &cid,
		}))
	}
	return f
}

func classTarget(id uuid.UUID) Target {
	return Target{Mode: TargetClass, ClassID: &id}
}

func TestClampMonths(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{in: -3, want: 1},
		{in: 0, want: 1},
		{in: 1, want: 1},
		{in: 12, want: 12},
		{in: 24, want: 24},
		{in: 30, want: 24},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampMonths(tt.in), "in=%d", tt.in)
	}
}

func TestAssignInputMonths(t *testing.T) {
	start := day(2024, time.January, 15)

	t.Run("single month without repeat ignores count", func(t *testing.T) {
		got := AssignInput{StartDate: start, MonthsCount: 6}.Months()
		require.Len(t, got, 1)
		assert.Equal(t, day(2024, time.January, 1), got[0])
	})

	t.Run("repeat is clamped", func(t *testing.T) {
		assert.Len(t, AssignInput{StartDate: start, RepeatMonthly: true, MonthsCount: 0}.Months(), 1)
		assert.Len(t, AssignInput{StartDate: start, RepeatMonthly: true, MonthsCount: 30}.Months(), 24)
	})
}

func TestAssign_ValidationBeforeStore(t *testing.T) {
	f := newFixture(t, 2)
	f.store.InsertErr = func(int) error { return errors.New("store must not be called") }
	ctx := context.Background()

	_, err := NewGenerator(f.store).Assign(ctx, f.bill, AssignInput{
		Target:    Target{Mode: TargetClass},
		StartDate: day(2024, time.July, 1),
	})
	assert.ErrorIs(t, err, ErrTargetClassRequired)

	zero := f.bill
	zero.BillAmount = decimal.Zero
	_, err = NewGenerator(f.store).Assign(ctx, zero, AssignInput{
		Target:    Target{Mode: TargetAll},
		StartDate: day(2024, time.July, 1),
	})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	cents := f.bill
	cents.BillAmount = decimal.RequireFromString("150000.50")
	_, err = NewGenerator(f.store).Assign(ctx, cents, AssignInput{
		Target:    Target{Mode: TargetAll},
		StartDate: day(2024, time.July, 1),
	})
	assert.ErrorIs(t, err, ErrFractionalAmount)

	_, err = NewGenerator(f.store).AssignByID(ctx, uuid.New(), AssignInput{Target: Target{Mode: "kelas"}, StartDate: day(2024, time.July, 1)})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	assert.Empty(t, f.store.StudentBills())
	assert.Empty(t, f.store.InsertBatches)
}

func TestAssign_MonthNormalization(t *testing.T) {
	f := newFixture(t, 2)
	res, err := NewGenerator(f.store).Assign(context.Background(), f.bill, AssignInput{
		Target:        classTarget(f.class.ClassID),
		RepeatMonthly: true,
		StartDate:     day(2024, time.January, 15),
		MonthsCount:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, res.Outcome)
	assert.Equal(t, 6, res.Inserted)
	assert.Equal(t, 6, res.Affected)

	want := map[time.Time]int{
		day(2024, time.January, 1):  2,
		day(2024, time.February, 1): 2,
		day(2024, time.March, 1):    2,
	}
	got := map[time.Time]int{}
	for _, sb := range f.store.StudentBills() {
		got[sb.StudentBillDueDate]++
		assert.Equal(t, model.StudentBillPending, sb.StudentBillStatus)
		assert.True(t, sb.StudentBillAmount.Equal(f.bill.BillAmount))
	}
	assert.Equal(t, want, got)
}

func TestAssign_IdempotentWithoutOverwrite(t *testing.T) {
	f := newFixture(t, 3)
	g := NewGenerator(f.store)
	in := AssignInput{
		Target:        Target{Mode: TargetAll},
		RepeatMonthly: true,
		StartDate:     day(2024, time.July, 1),
		MonthsCount:   12,
	}

	first, err := g.Assign(context.Background(), f.bill, in)
	require.NoError(t, err)
	assert.Equal(t, 36, first.Affected)
	rowsAfterFirst := f.store.StudentBills()

	second, err := g.Assign(context.Background(), f.bill, in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNothingToDo, second.Outcome)
	assert.Equal(t, 0, second.Affected)
	assert.Equal(t, 36, second.Skipped)
	assert.Equal(t, rowsAfterFirst, f.store.StudentBills())
}

func TestAssign_EmptyClassIsNoop(t *testing.T) {
	f := newFixture(t, 4)
	res, err := NewGenerator(f.store).Assign(context.Background(), f.bill, AssignInput{
		Target:    classTarget(f.empty.ClassID),
		StartDate: day(2024, time.July, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoStudents, res.Outcome)
	assert.Zero(t, res.Affected)
	assert.Empty(t, f.store.StudentBills())
	assert.Empty(t, f.store.InsertBatches)
}

func TestAssign_InactiveStudentsExcluded(t *testing.T) {
	f := newFixture(t, 1)
	cid := f.class.ClassID
	f.store.PutStudent(studentModel.StudentModel{StudentName: "Lulus", StudentClassID: &cid, StudentStatus: studentModel.StudentStatusGraduated})

	res, err := NewGenerator(f.store).Assign(context.Background(), f.bill, AssignInput{
		Target:    classTarget(cid),
		StartDate: day(2024, time.July, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Students)
	assert.Equal(t, 1, res.Inserted)
}

func TestAssign_OverwriteSemantics(t *testing.T) {
	month := day(2024, time.August, 1)

	setup := func(t *testing.T) (*fixture, model.StudentBillModel) {
		f := newFixture(t, 1)
		existing := f.store.PutStudentBill(model.StudentBillModel{
			StudentBillStudentID: f.student[0].StudentID,
			StudentBillBillID:    f.bill.BillID,
			StudentBillAmount:    decimal.NewFromInt(100),
			StudentBillDueDate:   month,
			StudentBillStatus:    model.StudentBillOverdue,
		})
		return f, existing
	}

	t.Run("overwrite updates amount and resets status", func(t *testing.T) {
		f, existing := setup(t)
		f.bill.BillAmount = decimal.NewFromInt(150)

		res, err := NewGenerator(f.store).Assign(context.Background(), f.bill, AssignInput{
			Target:            classTarget(f.class.ClassID),
			StartDate:         day(2024, time.August, 20),
			OverwriteExisting: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Updated)
		assert.Equal(t, 1, res.Affected)

		got, ok := f.store.StudentBill(existing.StudentBillID)
		require.True(t, ok)
		assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, model.StudentBillPending, got.StudentBillStatus)
		assert.Equal(t, month, got.StudentBillDueDate)
	})

	t.Run("without overwrite leaves row untouched", func(t *testing.T) {
		f, existing := setup(t)
		f.bill.BillAmount = decimal.NewFromInt(150)

		res, err := NewGenerator(f.store).Assign(context.Background(), f.bill, AssignInput{
			Target:    classTarget(f.class.ClassID),
			StartDate: month,
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeNothingToDo, res.Outcome)

		got, _ := f.store.StudentBill(existing.StudentBillID)
		assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, model.StudentBillOverdue, got.StudentBillStatus)
	})
}

func TestAssign_OverwriteKeepsPaidAndCancelled(t *testing.T) {
	f := newFixture(t, 2)
	month := day(2024, time.September, 1)
	paid := f.store.PutStudentBill(model.StudentBillModel{
		StudentBillStudentID: f.student[0].StudentID,
		StudentBillBillID:    f.bill.BillID,
		StudentBillAmount:    decimal.NewFromInt(100),
		StudentBillDueDate:   month,
		StudentBillStatus:    model.StudentBillPaid,
	})
	cancelled := f.store.PutStudentBill(model.StudentBillModel{
		StudentBillStudentID: f.student[1].StudentID,
		StudentBillBillID:    f.bill.BillID,
		StudentBillAmount:    decimal.NewFromInt(100),
		StudentBillDueDate:   month,
		StudentBillStatus:    model.StudentBillCancelled,
	})

	res, err := NewGenerator(f.store).Assign(context.Background(), f.bill, AssignInput{
		Target:            Target{Mode: TargetAll},
		StartDate:         month,
		OverwriteExisting: true,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNothingToDo, res.Outcome)
	assert.Equal(t, 2, res.Skipped)

	got, _ := f.store.StudentBill(paid.StudentBillID)
	assert.Equal(t, model.StudentBillPaid, got.StudentBillStatus)
	got, _ = f.store.StudentBill(cancelled.StudentBillID)
	assert.Equal(t, model.StudentBillCancelled, got.StudentBillStatus)
	assert.True(t, got.StudentBillAmount.Equal(decimal.NewFromInt(100)))
}

func TestAssign_InsertBatches(t *testing.T) {
	f := newFixture(t, 101)
	g := NewGenerator(f.store)

	res, err := g.Assign(context.Background(), f.bill, AssignInput{
		Target:        Target{Mode: TargetAll},
		RepeatMonthly: true,
		StartDate:     day(2025, time.January, 1),
		MonthsCount:   12,
	})
	require.NoError(t, err)
	assert.Equal(t, 1212, res.Inserted)
	assert.Equal(t, []int{500, 500, 212}, f.store.InsertBatches)
}

func TestAssign_FailedBatchRollsBack(t *testing.T) {
	f := newFixture(t, 60)
	g := NewGenerator(f.store)
	g.BatchSize = 50
	boom := errors.New("koneksi putus")
	f.store.InsertErr = func(batch int) error {
		if batch == 2 {
			return boom
		}
		return nil
	}

	res, err := g.Assign(context.Background(), f.bill, AssignInput{
		Target:    Target{Mode: TargetAll},
		StartDate: day(2025, time.January, 1),
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, res)
	assert.Empty(t, f.store.StudentBills(), "first batch must be rolled back")
}

// staleReadStore: pembacaan existing tidak melihat baris dari run paralel.
type staleReadStore struct {
	*store.MemoryStore
}

func (s staleReadStore) ListStudentBills(context.Context, store.StudentBillQuery) ([]model.StudentBillModel, error) {
	return nil, nil
}

func (s staleReadStore) WithinTx(ctx context.Context, fn func(tx store.Store) error) error {
	return s.MemoryStore.WithinTx(ctx, func(store.Store) error { return fn(s) })
}

func TestAssign_ConcurrentConflictCountsAsSkipped(t *testing.T) {
	f := newFixture(t, 2)
	month := day(2025, time.March, 1)
	f.store.PutStudentBill(model.StudentBillModel{
		StudentBillStudentID: f.student[0].StudentID,
		StudentBillBillID:    f.bill.BillID,
		StudentBillAmount:    f.bill.BillAmount,
		StudentBillDueDate:   month,
	})

	res, err := NewGenerator(staleReadStore{f.store}).Assign(context.Background(), f.bill, AssignInput{
		Target:    Target{Mode: TargetAll},
		StartDate: month,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Affected)
	assert.Len(t, f.store.StudentBills(), 2)
}
