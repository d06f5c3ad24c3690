package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	billModel "sekolahku_backend/internals/features/finance/bills/model"
	cashModel "sekolahku_backend/internals/features/finance/cashbook/model"
	"sekolahku_backend/internals/features/finance/payments/model"
)

var errDuplicatePayment = errors.New("duplicate key value violates unique constraint \"payments_payment_student_bill_id_key\"")

// MemoryStore: Store di memori untuk test service & controller pembayaran.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	infos    map[uuid.UUID]BillInfo
	payments map[uuid.UUID]model.PaymentModel
	cashbook []cashModel.CashbookEntryModel
	events   []model.PaymentGatewayEventModel

	// hook kegagalan untuk test
	CashbookErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		infos:    map[uuid.UUID]BillInfo{},
		payments: map[uuid.UUID]model.PaymentModel{},
	}
}

func (s *MemoryStore) PutBillInfo(info BillInfo) BillInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info.StudentBill.StudentBillID == uuid.Nil {
		info.StudentBill.StudentBillID = uuid.New()
	}
	if info.StudentBill.StudentBillStatus == "" {
		info.StudentBill.StudentBillStatus = billModel.StudentBillPending
	}
	s.infos[info.StudentBill.StudentBillID] = info
	return info
}

func (s *MemoryStore) StudentBill(id uuid.UUID) (billModel.StudentBillModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.infos[id]
	return info.StudentBill, ok
}

func (s *MemoryStore) Payments() []model.PaymentModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PaymentModel, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p)
	}
	return out
}

func (s *MemoryStore) Cashbook() []cashModel.CashbookEntryModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]cashModel.CashbookEntryModel(nil), s.cashbook...)
}

func (s *MemoryStore) Events() []model.PaymentGatewayEventModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.PaymentGatewayEventModel(nil), s.events...)
}

/* ---------- Store ---------- */

func (s *MemoryStore) GetBillInfo(_ context.Context, id uuid.UUID) (*BillInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.infos[id]
	if !ok {
		return nil, ErrStudentBillNotFound
	}
	return &info, nil
}

// LockStudentBill: txMu dari WithinTx sudah menserialkan penulis.
func (s *MemoryStore) LockStudentBill(ctx context.Context, id uuid.UUID) (*BillInfo, error) {
	return s.GetBillInfo(ctx, id)
}

func (s *MemoryStore) InsertPayment(_ context.Context, p *model.PaymentModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.payments {
		if existing.PaymentStudentBillID == p.PaymentStudentBillID {
			return errDuplicatePayment
		}
	}
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	if p.PaymentCreatedAt.IsZero() {
		p.PaymentCreatedAt = time.Now()
	}
	s.payments[p.PaymentID] = *p
	return nil
}

func (s *MemoryStore) FindPaymentByStudentBill(_ context.Context, studentBillID uuid.UUID) (*model.PaymentModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.PaymentStudentBillID == studentBillID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) MarkPaid(_ context.Context, studentBillID uuid.UUID, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.infos[studentBillID]
	if !ok {
		return ErrStudentBillNotFound
	}
	at := paidAt
	info.StudentBill.StudentBillStatus = billModel.StudentBillPaid
	info.StudentBill.StudentBillPaidAt = &at
	s.infos[studentBillID] = info
	return nil
}

func (s *MemoryStore) InsertCashbookEntry(_ context.Context, e *cashModel.CashbookEntryModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CashbookErr != nil {
		return s.CashbookErr
	}
	if e.CashbookEntryID == uuid.Nil {
		e.CashbookEntryID = uuid.New()
	}
	s.cashbook = append(s.cashbook, *e)
	return nil
}

func (s *MemoryStore) LogGatewayEvent(_ context.Context, e *model.PaymentGatewayEventModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.GatewayEventID == uuid.Nil {
		e.GatewayEventID = uuid.New()
	}
	s.events = append(s.events, *e)
	return nil
}

// WithinTx: snapshot tagihan, pembayaran & kas; dipulihkan kalau fn gagal.
func (s *MemoryStore) WithinTx(_ context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	infos := make(map[uuid.UUID]BillInfo, len(s.infos))
	for k, v := range s.infos {
		infos[k] = v
	}
	payments := make(map[uuid.UUID]model.PaymentModel, len(s.payments))
	for k, v := range s.payments {
		payments[k] = v
	}
	cashbook := append([]cashModel.CashbookEntryModel(nil), s.cashbook...)
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.infos, s.payments, s.cashbook = infos, payments, cashbook
		s.mu.Unlock()
		return err
	}
	return nil
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
