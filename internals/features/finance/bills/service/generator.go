package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"sekolahku_backend/internals/features/finance/bills/model"
	"sekolahku_backend/internals/features/finance/bills/store"
	"sekolahku_backend/internals/helpers/dbtime"
)

const (
	DefaultInsertBatchSize = 500
	MinMonthsCount         = 1
	MaxMonthsCount         = 24
)

var (
	ErrTargetClassRequired = errors.New("kelas wajib dipilih untuk target per kelas")
	ErrInvalidTarget       = errors.New("target harus 'all' atau 'class'")
	ErrStartDateRequired   = errors.New("tanggal mulai wajib diisi")
	ErrNonPositiveAmount   = model.ErrNonPositiveAmount
	ErrFractionalAmount    = model.ErrFractionalAmount
)

type TargetMode string

const (
	TargetAll   TargetMode = "all"
	TargetClass TargetMode = "class"
)

type Target struct {
	Mode    TargetMode
	ClassID *uuid.UUID
}

func (t Target) validate() error {
	switch t.Mode {
	case TargetAll:
		return nil
	case TargetClass:
		if t.ClassID == nil || *t.ClassID == uuid.Nil {
			return ErrTargetClassRequired
		}
		return nil
	}
	return ErrInvalidTarget
}

func (t Target) filter() store.StudentFilter {
	f := store.StudentFilter{ActiveOnly: true}
	if t.Mode == TargetClass {
		f.ClassID = t.ClassID
	}
	return f
}

type AssignInput struct {
	Target            Target
	RepeatMonthly     bool
	StartDate         time.Time
	MonthsCount       int
	OverwriteExisting bool
}

func (in AssignInput) Validate() error {
	if err := in.Target.validate(); err != nil {
		return err
	}
	if in.StartDate.IsZero() {
		return ErrStartDateRequired
	}
	return nil
}

// ClampMonths: [1, 24].
func ClampMonths(n int) int {
	if n < MinMonthsCount {
		return MinMonthsCount
	}
	if n > MaxMonthsCount {
		return MaxMonthsCount
	}
	return n
}

// Months: daftar bulan target (tanggal 1). Tanpa repeat selalu satu bulan.
func (in AssignInput) Months() []time.Time {
	n := 1
	if in.RepeatMonthly {
		n = ClampMonths(in.MonthsCount)
	}
	return dbtime.MonthsFrom(in.StartDate, n)
}

type Outcome string

const (
	OutcomeApplied     Outcome = "applied"
	OutcomeNoStudents  Outcome = "no_students"
	OutcomeNothingToDo Outcome = "nothing_to_do"
)

type AssignResult struct {
	Outcome  Outcome     `json:"outcome"`
	Students int         `json:"students"`
	Months   []time.Time `json:"months"`
	Inserted int         `json:"inserted"`
	Updated  int         `json:"updated"`
	Skipped  int         `json:"skipped"`
	Affected int         `json:"affected"`
}

type Generator struct {
	store     store.Store
	BatchSize int
}

func NewGenerator(s store.Store) *Generator {
	return &Generator{store: s, BatchSize: DefaultInsertBatchSize}
}

type monthKey struct {
	student uuid.UUID
	month   string
}

/*
Assign mengembangkan satu template tagihan menjadi baris student_bills.

  - target kosong → OutcomeNoStudents, tanpa tulis apa pun
  - (siswa, bulan) belum ada → insert pending
  - sudah ada & overwrite → update nominal, due_date, status pending
    (baris paid/cancelled tidak pernah disentuh, dihitung skipped)
  - sudah ada & tanpa overwrite → skipped

Baca data existing, insert batch, dan update berjalan dalam satu transaksi:
kalau satu langkah gagal, semua dibatalkan.
*/
func (g *Generator) Assign(ctx context.Context, bill model.BillModel, in AssignInput) (*AssignResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if !bill.BillAmount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if !model.WholeRupiah(bill.BillAmount) {
		return nil, ErrFractionalAmount
	}

	months := in.Months()
	res := &AssignResult{Months: months}

	err := g.store.WithinTx(ctx, func(tx store.Store) error {
		studentIDs, err := tx.ListStudentIDs(ctx, in.Target.filter())
		if err != nil {
			return fmt.Errorf("ambil siswa: %w", err)
		}
		res.Students = len(studentIDs)
		if len(studentIDs) == 0 {
			res.Outcome = OutcomeNoStudents
			return nil
		}

		existing, err := tx.ListStudentBills(ctx, store.StudentBillQuery{
			BillID:     bill.BillID,
			StudentIDs: studentIDs,
			From:       months[0],
			To:         dbtime.MonthEnd(months[len(months)-1]),
		})
		if err != nil {
			return fmt.Errorf("ambil tagihan existing: %w", err)
		}
		index := make(map[monthKey]model.StudentBillModel, len(existing))
		for _, row := range existing {
			index[monthKey{row.StudentBillStudentID, dbtime.MonthKey(row.StudentBillDueDate)}] = row
		}

		var inserts []model.StudentBillModel
		var updates []model.StudentBillModel
		for _, sid := range studentIDs {
			for _, m := range months {
				row, found := index[monthKey{sid, dbtime.MonthKey(m)}]
				switch {
				case !found:
					inserts = append(inserts, model.StudentBillModel{
						StudentBillStudentID: sid,
						StudentBillBillID:    bill.BillID,
						StudentBillAmount:    bill.BillAmount,
						StudentBillDueDate:   m,
						StudentBillStatus:    model.StudentBillPending,
					})
				case !in.OverwriteExisting:
					res.Skipped++
				case row.StudentBillStatus == model.StudentBillPaid,
					row.StudentBillStatus == model.StudentBillCancelled:
					res.Skipped++
				default:
					row.StudentBillDueDate = m
					updates = append(updates, row)
				}
			}
		}

		if len(inserts) == 0 && len(updates) == 0 {
			res.Outcome = OutcomeNothingToDo
			return nil
		}

		size := g.BatchSize
		if size <= 0 {
			size = DefaultInsertBatchSize
		}
		for start := 0; start < len(inserts); start += size {
			end := start + size
			if end > len(inserts) {
				end = len(inserts)
			}
			n, err := tx.InsertStudentBills(ctx, inserts[start:end])
			if err != nil {
				return fmt.Errorf("insert batch %d-%d: %w", start, end, err)
			}
			res.Inserted += n
			// bentrok unique key (run paralel) → dianggap sudah ada
			res.Skipped += (end - start) - n
		}

		for _, row := range updates {
			if err := tx.UpdateStudentBill(ctx, row.StudentBillID, bill.BillAmount, row.StudentBillDueDate, model.StudentBillPending); err != nil {
				return fmt.Errorf("update tagihan %s: %w", row.StudentBillID, err)
			}
			res.Updated++
		}

		res.Outcome = OutcomeApplied
		return nil
	})
	if err != nil {
		log.Printf("[GENERATE] ❌ bill=%s gagal, rollback: %v", bill.BillID, err)
		return nil, err
	}

	res.Affected = res.Inserted + res.Updated
	log.Printf("[GENERATE] bill=%s outcome=%s students=%d months=%d inserted=%d updated=%d skipped=%d",
		bill.BillID, res.Outcome, res.Students, len(months), res.Inserted, res.Updated, res.Skipped)
	return res, nil
}

// AssignByID: validasi input dulu (tanpa akses DB), baru ambil template.
func (g *Generator) AssignByID(ctx context.Context, billID uuid.UUID, in AssignInput) (*AssignResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	bill, err := g.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	return g.Assign(ctx, *bill, in)
}
