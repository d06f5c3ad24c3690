package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	billModel "sekolahku_backend/internals/features/finance/bills/model"
	cashModel "sekolahku_backend/internals/features/finance/cashbook/model"
)

type GormSource struct {
	DB *gorm.DB
}

func (s GormSource) BillTotalsByMonth(ctx context.Context, from, to time.Time) ([]MonthAggregate, error) {
	var rows []MonthAggregate
	err := s.DB.WithContext(ctx).
		Model(&billModel.StudentBillModel{}).
		Select(`date_trunc('month', student_bill_due_date)::date AS month,
			student_bill_status AS status,
			COUNT(*) AS count,
			COALESCE(SUM(student_bill_amount), 0) AS total`).
		Where("student_bill_due_date BETWEEN ? AND ?", from, to).
		Group("1, 2").
		Order("1").
		Scan(&rows).Error
	return rows, err
}

func (s GormSource) CashTotals(ctx context.Context, from, to time.Time) ([]CashAggregate, error) {
	var rows []CashAggregate
	err := s.DB.WithContext(ctx).
		Model(&cashModel.CashbookEntryModel{}).
		Select(`cashbook_entry_kind AS kind,
			cashbook_entry_category AS category,
			COUNT(*) AS count,
			COALESCE(SUM(cashbook_entry_amount), 0) AS total`).
		Where("cashbook_entry_date BETWEEN ? AND ?", from, to).
		Group("1, 2").
		Scan(&rows).Error
	return rows, err
}

var _ Source = GormSource{}
