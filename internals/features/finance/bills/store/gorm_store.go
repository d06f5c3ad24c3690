package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	yearModel "sekolahku_backend/internals/features/school/academic_years/model"
	classModel "sekolahku_backend/internals/features/school/classes/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"

	"sekolahku_backend/internals/features/finance/bills/model"
	"sekolahku_backend/internals/helpers/dbtime"
)

// batas parameter IN (...) per query; Postgres maks 65535 bind params
const inChunk = 1000

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetBill(ctx context.Context, id uuid.UUID) (*model.BillModel, error) {
	var m model.BillModel
	if err := s.db.WithContext(ctx).First(&m, "bill_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) studentScope(ctx context.Context, f StudentFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&studentModel.StudentModel{})
	if f.ActiveOnly {
		q = q.Where("student_status = ?", studentModel.StudentStatusActive)
	}
	if f.ClassID != nil {
		q = q.Where("student_class_id = ?", *f.ClassID)
	}
	if f.Level != nil {
		sub := s.db.Model(&classModel.ClassModel{}).
			Select("class_id").
			Where("class_level = ?", *f.Level)
		q = q.Where("student_class_id IN (?)", sub)
	}
	return q
}

func (s *GormStore) ListStudentIDs(ctx context.Context, f StudentFilter) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.studentScope(ctx, f).
		Order("student_id").
		Pluck("student_id", &ids).Error
	return ids, err
}

func (s *GormStore) ListStudentBills(ctx context.Context, q StudentBillQuery) ([]model.StudentBillModel, error) {
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Where("student_bill_bill_id = ?", q.BillID).
			Where("student_bill_due_date BETWEEN ? AND ?", q.From, q.To)
	}

	if q.StudentIDs == nil {
		var rows []model.StudentBillModel
		err := base().Order("student_bill_due_date ASC").Find(&rows).Error
		return rows, err
	}

	out := make([]model.StudentBillModel, 0, len(q.StudentIDs))
	for start := 0; start < len(q.StudentIDs); start += inChunk {
		end := start + inChunk
		if end > len(q.StudentIDs) {
			end = len(q.StudentIDs)
		}
		var rows []model.StudentBillModel
		if err := base().
			Where("student_bill_student_id IN ?", q.StudentIDs[start:end]).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func (s *GormStore) ListBillMonths(ctx context.Context, billID uuid.UUID) ([]time.Time, error) {
	var months []time.Time
	err := s.db.WithContext(ctx).
		Model(&model.StudentBillModel{}).
		Where("student_bill_bill_id = ?", billID).
		Distinct("student_bill_due_date").
		Order("student_bill_due_date ASC").
		Pluck("student_bill_due_date", &months).Error
	return months, err
}

// ActiveAcademicYear: kalau lebih dari satu aktif, ambil yang mulai paling akhir.
func (s *GormStore) ActiveAcademicYear(ctx context.Context) (*ActiveYear, error) {
	var y yearModel.AcademicYearModel
	err := s.db.WithContext(ctx).
		Where("academic_year_is_active = TRUE").
		Order("academic_year_start_date DESC").
		First(&y).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ActiveYear{
		ID:        y.AcademicYearID,
		Code:      y.AcademicYearCode,
		StartDate: y.AcademicYearStartDate,
		EndDate:   y.AcademicYearEndDate,
	}, nil
}

func (s *GormStore) InsertStudentBills(ctx context.Context, rows []model.StudentBillModel) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "student_bill_student_id"},
				{Name: "student_bill_bill_id"},
				{Name: "student_bill_due_date"},
			},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (s *GormStore) UpdateStudentBill(ctx context.Context, id uuid.UUID, amount decimal.Decimal, dueDate time.Time, status model.StudentBillStatus) error {
	res := s.db.WithContext(ctx).
		Model(&model.StudentBillModel{}).
		Where("student_bill_id = ?", id).
		Updates(map[string]any{
			"student_bill_amount":     amount,
			"student_bill_due_date":   dueDate,
			"student_bill_status":     status,
			"student_bill_updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStudentBillNotFound
	}
	return nil
}

func (s *GormStore) UpdateMonthAmount(ctx context.Context, billID uuid.UUID, month time.Time, amount decimal.Decimal, f StudentFilter) (int64, error) {
	q := s.db.WithContext(ctx).
		Model(&model.StudentBillModel{}).
		Where("student_bill_bill_id = ? AND student_bill_due_date BETWEEN ? AND ?",
			billID, dbtime.MonthStart(month), dbtime.MonthEnd(month)).
		Where("student_bill_status IN ?", []model.StudentBillStatus{model.StudentBillPending, model.StudentBillOverdue})
	if !f.IsZero() {
		q = q.Where("student_bill_student_id IN (?)", s.studentScope(ctx, f).Select("student_id"))
	}
	res := q.Updates(map[string]any{
		"student_bill_amount":     amount,
		"student_bill_updated_at": time.Now(),
	})
	return res.RowsAffected, res.Error
}

func (s *GormStore) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&model.StudentBillModel{}).
		Where("student_bill_status = ? AND student_bill_due_date < ?", model.StudentBillPending, before).
		Updates(map[string]any{
			"student_bill_status":     model.StudentBillOverdue,
			"student_bill_updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
