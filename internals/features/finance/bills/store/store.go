// Package store: akses data tagihan untuk generator & editor bulanan.
// Ada dua implementasi: GormStore (Postgres) dan MemoryStore (test).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/bills/model"
)

var (
	ErrBillNotFound        = errors.New("tagihan tidak ditemukan")
	ErrStudentBillNotFound = errors.New("tagihan siswa tidak ditemukan")
)

// StudentFilter: populasi siswa. Zero value = semua siswa.
type StudentFilter struct {
	ClassID    *uuid.UUID
	Level      *int
	ActiveOnly bool
}

func (f StudentFilter) IsZero() bool {
	return f.ClassID == nil && f.Level == nil && !f.ActiveOnly
}

// StudentBillQuery: due_date di [From, To] inklusif. StudentIDs nil = tanpa batasan siswa.
type StudentBillQuery struct {
	BillID     uuid.UUID
	StudentIDs []uuid.UUID
	From, To   time.Time
}

// ActiveYear: rentang tahun ajaran aktif.
type ActiveYear struct {
	ID        uuid.UUID
	Code      string
	StartDate time.Time
	EndDate   time.Time
}

type Store interface {
	GetBill(ctx context.Context, id uuid.UUID) (*model.BillModel, error)
	ListStudentIDs(ctx context.Context, f StudentFilter) ([]uuid.UUID, error)
	ListStudentBills(ctx context.Context, q StudentBillQuery) ([]model.StudentBillModel, error)
	// ListBillMonths: semua due_date (distinct, urut naik) untuk satu tagihan.
	ListBillMonths(ctx context.Context, billID uuid.UUID) ([]time.Time, error)
	ActiveAcademicYear(ctx context.Context) (*ActiveYear, error)

	// InsertStudentBills: satu batch; baris yang bentrok unique key dilewati.
	// Return jumlah baris yang benar-benar masuk.
	InsertStudentBills(ctx context.Context, rows []model.StudentBillModel) (int, error)
	UpdateStudentBill(ctx context.Context, id uuid.UUID, amount decimal.Decimal, dueDate time.Time, status model.StudentBillStatus) error
	// UpdateMonthAmount: ubah nominal baris pending/overdue milik bill yang due_date-nya jatuh
	// di bulan kalender month (sama dengan pengelompokan Load), dalam populasi f.
	UpdateMonthAmount(ctx context.Context, billID uuid.UUID, month time.Time, amount decimal.Decimal, f StudentFilter) (int64, error)
	// MarkOverdue: pending dengan due_date < before → overdue.
	MarkOverdue(ctx context.Context, before time.Time) (int64, error)

	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
