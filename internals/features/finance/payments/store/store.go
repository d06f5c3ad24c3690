package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	billModel "sekolahku_backend/internals/features/finance/bills/model"
	cashModel "sekolahku_backend/internals/features/finance/cashbook/model"
	"sekolahku_backend/internals/features/finance/payments/model"
)

var ErrStudentBillNotFound = errors.New("tagihan siswa tidak ditemukan")

// BillInfo: baris student_bills + nama siswa & template untuk deskripsi/checkout.
type BillInfo struct {
	StudentBill billModel.StudentBillModel
	StudentName string
	StudentNIS  string
	BillCode    string
	BillName    string
}

// Store: semua akses data yang dibutuhkan pencatatan pembayaran.
type Store interface {
	// LockStudentBill mengunci baris tagihan (FOR UPDATE) sampai tx selesai.
	LockStudentBill(ctx context.Context, id uuid.UUID) (*BillInfo, error)
	GetBillInfo(ctx context.Context, id uuid.UUID) (*BillInfo, error)

	InsertPayment(ctx context.Context, p *model.PaymentModel) error
	FindPaymentByStudentBill(ctx context.Context, studentBillID uuid.UUID) (*model.PaymentModel, error)
	MarkPaid(ctx context.Context, studentBillID uuid.UUID, paidAt time.Time) error
	InsertCashbookEntry(ctx context.Context, e *cashModel.CashbookEntryModel) error
	LogGatewayEvent(ctx context.Context, e *model.PaymentGatewayEventModel) error

	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
