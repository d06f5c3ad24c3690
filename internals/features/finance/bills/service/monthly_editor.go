package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/bills/model"
	"sekolahku_backend/internals/features/finance/bills/store"
	"sekolahku_backend/internals/helpers/dbtime"
)

var (
	ErrNoMonths       = errors.New("tidak ada bulan yang diubah")
	ErrDuplicateMonth = errors.New("bulan yang sama dikirim lebih dari sekali")
)

type MonthSource string

const (
	SourceActiveYear   MonthSource = "active_year"
	SourceExistingRows MonthSource = "existing_rows"
)

type MonthlyRow struct {
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
	// Rows: jumlah student_bills di bulan ini; Distinct: variasi nominal.
	Rows      int  `json:"rows"`
	Distinct  int  `json:"distinct_amounts"`
	Generated bool `json:"generated"`
}

type MonthlyView struct {
	BillID     uuid.UUID         `json:"bill_id"`
	Source     MonthSource       `json:"source"`
	ActiveYear *store.ActiveYear `json:"active_year,omitempty"`
	Months     []MonthlyRow      `json:"months"`
}

type MonthlyEdit struct {
	DueDate time.Time
	Amount  decimal.Decimal
}

// EditTarget: kosong = semua siswa; ClassID/Level membatasi baris yang ditulis.
type EditTarget struct {
	ClassID *uuid.UUID
	Level   *int
}

func (t EditTarget) filter() store.StudentFilter {
	return store.StudentFilter{ClassID: t.ClassID, Level: t.Level}
}

type SaveResult struct {
	MonthsApplied int   `json:"months_applied"`
	RowsAffected  int64 `json:"rows_affected"`
}

type MonthlyEditor struct {
	store store.Store
}

func NewMonthlyEditor(s store.Store) *MonthlyEditor {
	return &MonthlyEditor{store: s}
}

// RepresentativeAmount: modus; seri → nominal terkecil.
func RepresentativeAmount(amounts []decimal.Decimal) (decimal.Decimal, int) {
	if len(amounts) == 0 {
		return decimal.Zero, 0
	}
	type bucket struct {
		val decimal.Decimal
		n   int
	}
	counts := map[string]*bucket{}
	for _, a := range amounts {
		k := a.StringFixed(2)
		if b, ok := counts[k]; ok {
			b.n++
			continue
		}
		counts[k] = &bucket{val: a, n: 1}
	}
	var best *bucket
	for _, b := range counts {
		if best == nil || b.n > best.n || (b.n == best.n && b.val.LessThan(best.val)) {
			best = b
		}
	}
	return best.val, len(counts)
}

func (e *MonthlyEditor) Load(ctx context.Context, bill model.BillModel) (*MonthlyView, error) {
	view := &MonthlyView{BillID: bill.BillID}

	year, err := e.store.ActiveAcademicYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("ambil tahun ajaran aktif: %w", err)
	}

	var months []time.Time
	var from, to time.Time
	if year != nil {
		view.Source = SourceActiveYear
		view.ActiveYear = year
		months = dbtime.MonthsBetween(year.StartDate, year.EndDate)
		from, to = dbtime.MonthStart(year.StartDate), dbtime.MonthEnd(year.EndDate)
	} else {
		view.Source = SourceExistingRows
		raw, err := e.store.ListBillMonths(ctx, bill.BillID)
		if err != nil {
			return nil, fmt.Errorf("ambil bulan tagihan: %w", err)
		}
		seen := map[string]struct{}{}
		for _, d := range raw {
			k := dbtime.MonthKey(d)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			months = append(months, dbtime.MonthStart(d))
		}
		if len(months) == 0 {
			view.Months = []MonthlyRow{}
			return view, nil
		}
		from, to = months[0], dbtime.MonthEnd(months[len(months)-1])
	}

	rows, err := e.store.ListStudentBills(ctx, store.StudentBillQuery{BillID: bill.BillID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("ambil tagihan siswa: %w", err)
	}
	grouped := map[string][]decimal.Decimal{}
	for _, r := range rows {
		k := dbtime.MonthKey(r.StudentBillDueDate)
		grouped[k] = append(grouped[k], r.StudentBillAmount)
	}

	view.Months = make([]MonthlyRow, 0, len(months))
	for _, m := range months {
		amounts := grouped[dbtime.MonthKey(m)]
		if len(amounts) == 0 {
			view.Months = append(view.Months, MonthlyRow{DueDate: m, Amount: bill.BillAmount})
			continue
		}
		rep, distinct := RepresentativeAmount(amounts)
		view.Months = append(view.Months, MonthlyRow{
			DueDate:   m,
			Amount:    rep,
			Rows:      len(amounts),
			Distinct:  distinct,
			Generated: true,
		})
	}
	return view, nil
}

/*
Save menerapkan nominal baru per bulan secara berurutan.
Hanya nominal yang berubah; due_date, status, dan siswa tidak disentuh.
Gagal di satu bulan → berhenti; bulan sebelumnya tetap tersimpan (lihat SaveResult).
*/
func (e *MonthlyEditor) Save(ctx context.Context, billID uuid.UUID, edits []MonthlyEdit, target EditTarget) (*SaveResult, error) {
	if len(edits) == 0 {
		return nil, ErrNoMonths
	}
	seen := map[string]struct{}{}
	for _, ed := range edits {
		if !ed.Amount.IsPositive() {
			return nil, ErrNonPositiveAmount
		}
		if !model.WholeRupiah(ed.Amount) {
			return nil, ErrFractionalAmount
		}
		k := dbtime.MonthKey(ed.DueDate)
		if _, dup := seen[k]; dup {
			return nil, ErrDuplicateMonth
		}
		seen[k] = struct{}{}
	}
	sorted := append([]MonthlyEdit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DueDate.Before(sorted[j].DueDate) })

	res := &SaveResult{}
	for _, ed := range sorted {
		month := dbtime.MonthStart(ed.DueDate)
		n, err := e.store.UpdateMonthAmount(ctx, billID, month, ed.Amount, target.filter())
		if err != nil {
			log.Printf("[MONTHLY] ❌ bill=%s bulan=%s gagal setelah %d bulan: %v",
				billID, dbtime.MonthKey(month), res.MonthsApplied, err)
			return res, fmt.Errorf("update bulan %s: %w", dbtime.MonthKey(month), err)
		}
		res.MonthsApplied++
		res.RowsAffected += n
	}
	log.Printf("[MONTHLY] bill=%s months=%d rows=%d", billID, res.MonthsApplied, res.RowsAffected)
	return res, nil
}
