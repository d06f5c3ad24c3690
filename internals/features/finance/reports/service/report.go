package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	billModel "sekolahku_backend/internals/features/finance/bills/model"
	cashModel "sekolahku_backend/internals/features/finance/cashbook/model"
	"sekolahku_backend/internals/helpers/dbtime"
)

// MonthAggregate: satu baris GROUP BY (bulan, status) dari student_bills.
type MonthAggregate struct {
	Month  time.Time
	Status billModel.StudentBillStatus
	Count  int64
	Total  decimal.Decimal
}

// CashAggregate: satu baris GROUP BY (jenis, kategori) dari cashbook_entries.
type CashAggregate struct {
	Kind     cashModel.CashbookKind
	Category string
	Count    int64
	Total    decimal.Decimal
}

type Source interface {
	BillTotalsByMonth(ctx context.Context, from, to time.Time) ([]MonthAggregate, error)
	CashTotals(ctx context.Context, from, to time.Time) ([]CashAggregate, error)
}

type Money struct {
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

func money(d decimal.Decimal) Money {
	return Money{Amount: d, Formatted: FormatIDR(d)}
}

type MonthlyRow struct {
	Month            string `json:"month"`
	Billed           Money  `json:"billed"`
	Paid             Money  `json:"paid"`
	Outstanding      Money  `json:"outstanding"`
	Overdue          Money  `json:"overdue"`
	BilledCount      int64  `json:"billed_count"`
	PaidCount        int64  `json:"paid_count"`
	OutstandingCount int64  `json:"outstanding_count"`
	CollectionRate   string `json:"collection_rate"`
}

type MonthlyReport struct {
	Year   int          `json:"year"`
	Months []MonthlyRow `json:"months"`
	Total  MonthlyRow   `json:"total"`
}

type tally struct {
	billed, paid, outstanding, overdue decimal.Decimal
	nBilled, nPaid, nOutstanding       int64
}

func (t *tally) add(a MonthAggregate) {
	if a.Status == billModel.StudentBillCancelled {
		return
	}
	t.billed = t.billed.Add(a.Total)
	t.nBilled += a.Count
	switch a.Status {
	case billModel.StudentBillPaid:
		t.paid = t.paid.Add(a.Total)
		t.nPaid += a.Count
	case billModel.StudentBillOverdue:
		t.overdue = t.overdue.Add(a.Total)
		fallthrough
	case billModel.StudentBillPending:
		t.outstanding = t.outstanding.Add(a.Total)
		t.nOutstanding += a.Count
	}
}

func (t tally) row(label string) MonthlyRow {
	rate := "0%"
	if t.billed.IsPositive() {
		rate = t.paid.Div(t.billed).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
	}
	return MonthlyRow{
		Month:            label,
		Billed:           money(t.billed),
		Paid:             money(t.paid),
		Outstanding:      money(t.outstanding),
		Overdue:          money(t.overdue),
		BilledCount:      t.nBilled,
		PaidCount:        t.nPaid,
		OutstandingCount: t.nOutstanding,
		CollectionRate:   rate,
	}
}

// BuildMonthlyReport: selalu 12 bulan (Jan..Des); tagihan cancelled tidak dihitung.
func BuildMonthlyReport(year int, aggs []MonthAggregate) MonthlyReport {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	months := dbtime.MonthsFrom(start, 12)

	byMonth := make(map[string]*tally, 12)
	for _, m := range months {
		byMonth[dbtime.MonthKey(m)] = &tally{}
	}
	var total tally
	for _, a := range aggs {
		t, ok := byMonth[dbtime.MonthKey(a.Month)]
		if !ok {
			continue
		}
		t.add(a)
		total.add(a)
	}

	rep := MonthlyReport{Year: year, Months: make([]MonthlyRow, 0, 12)}
	for _, m := range months {
		key := dbtime.MonthKey(m)
		rep.Months = append(rep.Months, byMonth[key].row(key))
	}
	rep.Total = total.row("total")
	return rep
}

type CategoryRow struct {
	Kind     cashModel.CashbookKind `json:"kind"`
	Category string                 `json:"category"`
	Count    int64                  `json:"count"`
	Total    Money                  `json:"total"`
}

type CashbookReport struct {
	From       string        `json:"from"`
	To         string        `json:"to"`
	Income     Money         `json:"income"`
	Expense    Money         `json:"expense"`
	Balance    Money         `json:"balance"`
	Categories []CategoryRow `json:"categories"`
}

func BuildCashbookReport(from, to time.Time, aggs []CashAggregate) CashbookReport {
	income, expense := decimal.Zero, decimal.Zero
	cats := make([]CategoryRow, 0, len(aggs))
	for _, a := range aggs {
		switch a.Kind {
		case cashModel.CashbookIncome:
			income = income.Add(a.Total)
		case cashModel.CashbookExpense:
			expense = expense.Add(a.Total)
		default:
			continue
		}
		cats = append(cats, CategoryRow{Kind: a.Kind, Category: a.Category, Count: a.Count, Total: money(a.Total)})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Kind != cats[j].Kind {
			return cats[i].Kind == cashModel.CashbookIncome
		}
		return cats[i].Total.Amount.GreaterThan(cats[j].Total.Amount)
	})
	return CashbookReport{
		From:       from.Format(dbtime.DateLayout),
		To:         to.Format(dbtime.DateLayout),
		Income:     money(income),
		Expense:    money(expense),
		Balance:    money(income.Sub(expense)),
		Categories: cats,
	}
}

type ReportService struct {
	source Source
}

func NewReportService(src Source) *ReportService {
	return &ReportService{source: src}
}

func (s *ReportService) Monthly(ctx context.Context, year int) (MonthlyReport, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	aggs, err := s.source.BillTotalsByMonth(ctx, from, to)
	if err != nil {
		return MonthlyReport{}, err
	}
	return BuildMonthlyReport(year, aggs), nil
}

func (s *ReportService) Cashbook(ctx context.Context, from, to time.Time) (CashbookReport, error) {
	aggs, err := s.source.CashTotals(ctx, from, to)
	if err != nil {
		return CashbookReport{}, err
	}
	return BuildCashbookReport(from, to, aggs), nil
}
