// file: internals/features/finance/payments/service/payment_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	billModel "sekolahku_backend/internals/features/finance/bills/model"
	cashModel "sekolahku_backend/internals/features/finance/cashbook/model"
	"sekolahku_backend/internals/features/finance/payments/model"
	"sekolahku_backend/internals/features/finance/payments/store"
	"sekolahku_backend/internals/helpers/dbtime"
)

var (
	ErrAlreadyPaid    = errors.New("tagihan sudah lunas")
	ErrAmountMismatch = errors.New("nominal pembayaran harus sama dengan nominal tagihan")
	ErrInvalidMethod  = errors.New("metode pembayaran tidak valid")
)

// NotPayableError: tagihan ada tapi statusnya tidak bisa dibayar (mis. cancelled).
type NotPayableError struct {
	Status billModel.StudentBillStatus
}

func (e *NotPayableError) Error() string {
	return fmt.Sprintf("tagihan berstatus %s tidak bisa dibayar", e.Status)
}

type RecordInput struct {
	StudentBillID uuid.UUID
	// nil = pakai nominal tagihan
	Amount     *decimal.Decimal
	Method     model.PaymentMethod
	PaidAt     time.Time
	Notes      *string
	ReceivedBy *uuid.UUID

	GatewayOrderID *string
	GatewayPayload []byte
}

type PaymentService struct {
	store   store.Store
	Gateway *MidtransGateway
	now     func() time.Time
}

func NewPaymentService(s store.Store, gw *MidtransGateway) *PaymentService {
	return &PaymentService{store: s, Gateway: gw, now: time.Now}
}

/*
Record: satu transaksi →
 1. kunci baris tagihan
 2. tolak kalau sudah paid / cancelled
 3. insert payment
 4. tandai tagihan paid (+ paid_at)
 5. catat pemasukan di buku kas
*/
func (s *PaymentService) Record(ctx context.Context, in RecordInput) (*model.PaymentModel, error) {
	if !in.Method.Valid() {
		return nil, ErrInvalidMethod
	}
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = s.now()
	}

	var out *model.PaymentModel
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		info, err := tx.LockStudentBill(ctx, in.StudentBillID)
		if err != nil {
			return err
		}
		sb := info.StudentBill
		switch {
		case sb.StudentBillStatus == billModel.StudentBillPaid:
			return ErrAlreadyPaid
		case !sb.StudentBillStatus.Payable():
			return &NotPayableError{Status: sb.StudentBillStatus}
		}

		amount := sb.StudentBillAmount
		if in.Amount != nil {
			if !in.Amount.Equal(sb.StudentBillAmount) {
				return ErrAmountMismatch
			}
			amount = *in.Amount
		}

		p := &model.PaymentModel{
			PaymentStudentBillID:  sb.StudentBillID,
			PaymentAmount:         amount,
			PaymentMethod:         in.Method,
			PaymentDate:           paidAt,
			PaymentNotes:          in.Notes,
			PaymentReceivedBy:     in.ReceivedBy,
			PaymentGatewayOrderID: in.GatewayOrderID,
		}
		if len(in.GatewayPayload) > 0 {
			p.PaymentGatewayPayload = datatypes.JSON(in.GatewayPayload)
		}
		if err := tx.InsertPayment(ctx, p); err != nil {
			return err
		}
		if err := tx.MarkPaid(ctx, sb.StudentBillID, paidAt); err != nil {
			return err
		}

		desc := describe(info)
		entry := &cashModel.CashbookEntryModel{
			CashbookEntryDate:        dbtime.DateOf(paidAt.In(dbtime.SchoolLocation())),
			CashbookEntryKind:        cashModel.CashbookIncome,
			CashbookEntryCategory:    cashModel.CategoryStudentPayment,
			CashbookEntryAmount:      amount,
			CashbookEntryDescription: &desc,
			CashbookEntryPaymentID:   &p.PaymentID,
			CashbookEntryCreatedBy:   in.ReceivedBy,
		}
		if err := tx.InsertCashbookEntry(ctx, entry); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PAYMENT] bill=%s method=%s amount=%s ✅", in.StudentBillID, in.Method, out.PaymentAmount.StringFixed(2))
	return out, nil
}

func describe(info *store.BillInfo) string {
	parts := []string{"Pembayaran"}
	if info.BillName != "" {
		parts = append(parts, info.BillName)
	}
	parts = append(parts, dbtime.MonthKey(info.StudentBill.StudentBillDueDate))
	if info.StudentName != "" {
		parts = append(parts, "-", info.StudentName)
	}
	return strings.Join(parts, " ")
}
