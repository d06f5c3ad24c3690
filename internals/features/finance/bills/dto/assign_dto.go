package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/bills/service"
	"sekolahku_backend/internals/helpers/dbtime"
)

// POST /bills/:id/assign
type AssignRequest struct {
	Target            string     `json:"target" validate:"required,oneof=all class"`
	ClassID           *uuid.UUID `json:"class_id,omitempty"`
	RepeatMonthly     bool       `json:"repeat_monthly"`
	StartDate         string     `json:"start_date" validate:"required"`
	MonthsCount       int        `json:"months_count"`
	OverwriteExisting bool       `json:"overwrite_existing"`
}

func (r AssignRequest) ToInput() (service.AssignInput, error) {
	start, err := dbtime.ParseMonth(r.StartDate)
	if err != nil {
		return service.AssignInput{}, err
	}
	return service.AssignInput{
		Target:            service.Target{Mode: service.TargetMode(r.Target), ClassID: r.ClassID},
		RepeatMonthly:     r.RepeatMonthly,
		StartDate:         start,
		MonthsCount:       r.MonthsCount,
		OverwriteExisting: r.OverwriteExisting,
	}, nil
}

type AssignResponse struct {
	Outcome  string   `json:"outcome"`
	Students int      `json:"students"`
	Months   []string `json:"months"`
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Affected int      `json:"affected"`
}

func FromAssignResult(r *service.AssignResult) AssignResponse {
	months := make([]string, 0, len(r.Months))
	for _, m := range r.Months {
		months = append(months, m.Format(dbtime.DateLayout))
	}
	return AssignResponse{
		Outcome:  string(r.Outcome),
		Students: r.Students,
		Months:   months,
		Inserted: r.Inserted,
		Updated:  r.Updated,
		Skipped:  r.Skipped,
		Affected: r.Affected,
	}
}

/* =========================
   Monthly editor
   ========================= */

type MonthlyRowResponse struct {
	DueDate   string          `json:"due_date"`
	Month     string          `json:"month"`
	Amount    decimal.Decimal `json:"amount"`
	Rows      int             `json:"rows"`
	Distinct  int             `json:"distinct_amounts"`
	Generated bool            `json:"generated"`
}

type ActiveYearResponse struct {
	ID        uuid.UUID `json:"academic_year_id"`
	Code      string    `json:"academic_year_code"`
	StartDate string    `json:"academic_year_start_date"`
	EndDate   string    `json:"academic_year_end_date"`
}

type MonthlyViewResponse struct {
	BillID     uuid.UUID            `json:"bill_id"`
	Source     string               `json:"source"`
	ActiveYear *ActiveYearResponse  `json:"active_year,omitempty"`
	Months     []MonthlyRowResponse `json:"months"`
}

func FromMonthlyView(v *service.MonthlyView) MonthlyViewResponse {
	out := MonthlyViewResponse{
		BillID: v.BillID,
		Source: string(v.Source),
		Months: make([]MonthlyRowResponse, 0, len(v.Months)),
	}
	if v.ActiveYear != nil {
		out.ActiveYear = &ActiveYearResponse{
			ID:        v.ActiveYear.ID,
			Code:      v.ActiveYear.Code,
			StartDate: v.ActiveYear.StartDate.Format(dbtime.DateLayout),
			EndDate:   v.ActiveYear.EndDate.Format(dbtime.DateLayout),
		}
	}
	for _, m := range v.Months {
		out.Months = append(out.Months, MonthlyRowResponse{
			DueDate:   m.DueDate.Format(dbtime.DateLayout),
			Month:     dbtime.MonthKey(m.DueDate),
			Amount:    m.Amount,
			Rows:      m.Rows,
			Distinct:  m.Distinct,
			Generated: m.Generated,
		})
	}
	return out
}

type MonthlyEditItem struct {
	DueDate string          `json:"due_date" validate:"required"`
	Amount  decimal.Decimal `json:"amount"`
}

// PUT /bills/:id/monthly
type MonthlySaveRequest struct {
	ClassID *uuid.UUID        `json:"class_id,omitempty"`
	Level   *int              `json:"level,omitempty" validate:"omitempty,min=1,max=12"`
	Months  []MonthlyEditItem `json:"months" validate:"required,min=1,dive"`
}

func (r MonthlySaveRequest) ToEdits() ([]service.MonthlyEdit, service.EditTarget, error) {
	edits := make([]service.MonthlyEdit, 0, len(r.Months))
	for _, it := range r.Months {
		due, err := dbtime.ParseMonth(it.DueDate)
		if err != nil {
			return nil, service.EditTarget{}, err
		}
		edits = append(edits, service.MonthlyEdit{DueDate: due, Amount: it.Amount})
	}
	return edits, service.EditTarget{ClassID: r.ClassID, Level: r.Level}, nil
}
