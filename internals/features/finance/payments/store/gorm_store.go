package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	billModel "sekolahku_backend/internals/features/finance/bills/model"
	cashModel "sekolahku_backend/internals/features/finance/cashbook/model"
	"sekolahku_backend/internals/features/finance/payments/model"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type billNames struct {
	StudentName string
	StudentNIS  string
	BillCode    string
	BillName    string
}

func (s *GormStore) loadInfo(ctx context.Context, id uuid.UUID, lock bool) (*BillInfo, error) {
	q := s.db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var sb billModel.StudentBillModel
	if err := q.First(&sb, "student_bill_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentBillNotFound
		}
		return nil, err
	}

	var names billNames
	err := s.db.WithContext(ctx).
		Table("student_bills AS sb").
		Select(`s.student_name AS student_name, s.student_nis AS student_nis,
			b.bill_code AS bill_code, b.bill_name AS bill_name`).
		Joins("JOIN students s ON s.student_id = sb.student_bill_student_id").
		Joins("JOIN bills b ON b.bill_id = sb.student_bill_bill_id").
		Where("sb.student_bill_id = ?", id).
		Take(&names).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &BillInfo{
		StudentBill: sb,
		StudentName: names.StudentName,
		StudentNIS:  names.StudentNIS,
		BillCode:    names.BillCode,
		BillName:    names.BillName,
	}, nil
}

func (s *GormStore) LockStudentBill(ctx context.Context, id uuid.UUID) (*BillInfo, error) {
	return s.loadInfo(ctx, id, true)
}

func (s *GormStore) GetBillInfo(ctx context.Context, id uuid.UUID) (*BillInfo, error) {
	return s.loadInfo(ctx, id, false)
}

func (s *GormStore) InsertPayment(ctx context.Context, p *model.PaymentModel) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormStore) FindPaymentByStudentBill(ctx context.Context, studentBillID uuid.UUID) (*model.PaymentModel, error) {
	var p model.PaymentModel
	err := s.db.WithContext(ctx).
		Where("payment_student_bill_id = ?", studentBillID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) MarkPaid(ctx context.Context, studentBillID uuid.UUID, paidAt time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&billModel.StudentBillModel{}).
		Where("student_bill_id = ?", studentBillID).
		Updates(map[string]any{
			"student_bill_status":     billModel.StudentBillPaid,
			"student_bill_paid_at":    paidAt,
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

func (s *GormStore) InsertCashbookEntry(ctx context.Context, e *cashModel.CashbookEntryModel) error {
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *GormStore) LogGatewayEvent(ctx context.Context, e *model.PaymentGatewayEventModel) error {
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
