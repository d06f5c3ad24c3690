// file: internals/features/finance/payments/service/midtrans.go
package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	billModel "sekolahku_backend/internals/features/finance/bills/model"
	"sekolahku_backend/internals/features/finance/payments/model"
	"sekolahku_backend/internals/features/finance/payments/store"
	"sekolahku_backend/internals/helpers/dbtime"
)

/* =========================================================
   Midtrans Snap client
========================================================= */

const (
	orderPrefix           = "SB-"
	DefaultCheckoutExpiry = 24 * time.Hour
)

var (
	ErrGatewayDisabled  = errors.New("payment gateway belum dikonfigurasi")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidOrderID   = errors.New("order_id tidak dikenal")
	// nominal ber-sen tidak bisa ditagih lewat Snap tanpa selisih
	ErrFractionalAmount = billModel.ErrFractionalAmount
)

// SnapAPI: bagian snap.Client yang dipakai (diganti fake di test).
type SnapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type MidtransGateway struct {
	Snap      SnapAPI
	ServerKey string
	Expiry    time.Duration
}

// NewMidtransGateway: nil kalau server key kosong (checkout dimatikan).
// useProduction=true untuk Production, false untuk Sandbox.
func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	serverKey = strings.TrimSpace(serverKey)
	if serverKey == "" {
		return nil
	}
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	var c snap.Client
	c.New(serverKey, env)
	return &MidtransGateway{Snap: &c, ServerKey: serverKey, Expiry: DefaultCheckoutExpiry}
}

/* =========================================================
   Order ID: SB-<student_bill_id>-<unix>
========================================================= */

func OrderID(studentBillID uuid.UUID, at time.Time) string {
	return orderPrefix + studentBillID.String() + "-" + strconv.FormatInt(at.Unix(), 10)
}

func ParseOrderID(orderID string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(orderID, orderPrefix)
	if !ok || len(rest) < 36 {
		return uuid.Nil, ErrInvalidOrderID
	}
	id, err := uuid.Parse(rest[:36])
	if err != nil {
		return uuid.Nil, ErrInvalidOrderID
	}
	return id, nil
}

/* =========================================================
   Checkout (Snap token)
========================================================= */

type CheckoutResult struct {
	OrderID     string          `json:"order_id"`
	Token       string          `json:"token"`
	RedirectURL string          `json:"redirect_url"`
	Amount      decimal.Decimal `json:"amount"`
}

func (s *PaymentService) Checkout(ctx context.Context, studentBillID uuid.UUID) (*CheckoutResult, error) {
	if s.Gateway == nil || s.Gateway.Snap == nil {
		return nil, ErrGatewayDisabled
	}
	info, err := s.store.GetBillInfo(ctx, studentBillID)
	if err != nil {
		return nil, err
	}
	sb := info.StudentBill
	if sb.StudentBillStatus == billModel.StudentBillPaid {
		return nil, ErrAlreadyPaid
	}
	if !sb.StudentBillStatus.Payable() {
		return nil, &NotPayableError{Status: sb.StudentBillStatus}
	}
	if !billModel.WholeRupiah(sb.StudentBillAmount) {
		return nil, ErrFractionalAmount
	}

	orderID := OrderID(sb.StudentBillID, s.now())
	req := buildSnapRequest(orderID, info, s.Gateway.Expiry)

	resp, merr := s.Gateway.Snap.CreateTransaction(req)
	if merr != nil {
		log.Printf("[MIDTRANS] checkout bill=%s gagal: %s", sb.StudentBillID, merr.Error())
		return nil, fmt.Errorf("midtrans: %s", merr.Error())
	}
	return &CheckoutResult{
		OrderID:     orderID,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		Amount:      sb.StudentBillAmount,
	}, nil
}

func buildSnapRequest(orderID string, info *store.BillInfo, expiry time.Duration) *snap.Request {
	gross := info.StudentBill.StudentBillAmount.IntPart()
	name := firstNonEmpty(info.BillName, "Tagihan Sekolah")

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: truncate(firstNonEmpty(info.StudentName, "Siswa"), 50),
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       firstNonEmpty(info.BillCode, "item-1"),
				Price:    gross,
				Qty:      1,
				Name:     truncate(name, 50),
				Category: "SPP",
			},
		},
		CustomField1: truncate(info.StudentNIS, 40),
	}
	if expiry > 0 {
		req.Expiry = &snap.ExpiryDetails{
			Unit:     "minute",
			Duration: int64(expiry / time.Minute),
		}
	}
	return req
}

/* =========================================================
   Webhook notification
========================================================= */

type Notification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, refund, failure
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	SettlementTime    string `json:"settlement_time"`
}

// Signature: SHA512(order_id + status_code + gross_amount + ServerKey), hex lowercase.
func Signature(n Notification, serverKey string) string {
	h := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

func VerifySignature(n Notification, serverKey string) bool {
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if got == "" || serverKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(Signature(n, serverKey))) == 1
}

// Settled: settlement, atau capture yang lolos fraud check.
func (n Notification) Settled() bool {
	switch n.TransactionStatus {
	case "settlement":
		return true
	case "capture":
		return n.FraudStatus == "" || n.FraudStatus == "accept"
	}
	return false
}

const (
	NotificationApplied   = "applied"
	NotificationIgnored   = "ignored"
	NotificationDuplicate = "duplicate"
	// uang sudah masuk di Midtrans tapi tidak bisa dicatat otomatis; admin harus cek manual
	NotificationNeedsReview = "needs_review"
)

type NotificationResult struct {
	Status    string     `json:"status"`
	Reason    string     `json:"reason,omitempty"`
	PaymentID *uuid.UUID `json:"payment_id,omitempty"`
}

/*
HandleNotification: verifikasi signature, lalu untuk settlement/capture catat
pembayaran method=gateway persis seperti pembayaran kasir. Notifikasi ulang untuk
tagihan yang sudah lunas → duplicate (bukan error). Semua notifikasi dicatat di
payment_gateway_events.
*/
func (s *PaymentService) HandleNotification(ctx context.Context, n Notification, raw []byte) (*NotificationResult, error) {
	event := &model.PaymentGatewayEventModel{
		GatewayEventOrderID:           n.OrderID,
		GatewayEventTransactionStatus: n.TransactionStatus,
		GatewayEventPayload:           raw,
		GatewayEventStatus:            model.GatewayEventReceived,
	}
	res, err := s.applyNotification(ctx, n, raw)
	switch {
	case err != nil:
		msg := err.Error()
		event.GatewayEventStatus = model.GatewayEventFailed
		event.GatewayEventError = &msg
	case res.Status == NotificationApplied:
		event.GatewayEventStatus = model.GatewayEventApplied
		event.GatewayEventPaymentID = res.PaymentID
	case res.Status == NotificationNeedsReview:
		reason := res.Reason
		event.GatewayEventStatus = model.GatewayEventFailed
		event.GatewayEventError = &reason
		log.Printf("[MIDTRANS] ⚠️ order=%s settled tapi tidak tercatat: %s", n.OrderID, reason)
	default:
		event.GatewayEventStatus = model.GatewayEventIgnored
		event.GatewayEventPaymentID = res.PaymentID
	}
	if lerr := s.store.LogGatewayEvent(ctx, event); lerr != nil {
		log.Printf("[MIDTRANS] gagal mencatat event order=%s: %v", n.OrderID, lerr)
	}
	return res, err
}

func (s *PaymentService) applyNotification(ctx context.Context, n Notification, raw []byte) (*NotificationResult, error) {
	if s.Gateway == nil || !VerifySignature(n, s.Gateway.ServerKey) {
		return nil, ErrInvalidSignature
	}
	if !n.Settled() {
		return &NotificationResult{Status: NotificationIgnored, Reason: "transaction_status=" + n.TransactionStatus}, nil
	}

	// Dari sini transaksi sudah settled: kegagalan apa pun → needs_review, bukan ignored.
	billID, err := ParseOrderID(n.OrderID)
	if err != nil {
		return needsReview(err.Error()), nil
	}
	gross, err := decimal.NewFromString(n.GrossAmount)
	if err != nil {
		return needsReview("gross_amount tidak valid: " + n.GrossAmount), nil
	}

	orderID := n.OrderID
	paidAt := s.now()
	if t, perr := time.ParseInLocation("2006-01-02 15:04:05", firstNonEmpty(n.SettlementTime, n.TransactionTime), dbtime.SchoolLocation()); perr == nil {
		paidAt = t
	}

	p, err := s.Record(ctx, RecordInput{
		StudentBillID:  billID,
		Amount:         &gross,
		Method:         model.PaymentMethodGateway,
		PaidAt:         paidAt,
		GatewayOrderID: &orderID,
		GatewayPayload: raw,
	})
	switch {
	case err == nil:
		return &NotificationResult{Status: NotificationApplied, PaymentID: &p.PaymentID}, nil
	case errors.Is(err, ErrAlreadyPaid):
		existing, ferr := s.store.FindPaymentByStudentBill(ctx, billID)
		if ferr != nil {
			return nil, ferr
		}
		res := &NotificationResult{Status: NotificationDuplicate, Reason: ErrAlreadyPaid.Error()}
		if existing != nil {
			res.PaymentID = &existing.PaymentID
		}
		return res, nil
	case errors.Is(err, store.ErrStudentBillNotFound):
		return needsReview(err.Error()), nil
	case errors.Is(err, ErrAmountMismatch):
		return needsReview(fmt.Sprintf("%s (dibayar %s)", err.Error(), gross.StringFixed(2))), nil
	}
	var np *NotPayableError
	if errors.As(err, &np) {
		return needsReview(np.Error()), nil
	}
	return nil, err
}

func needsReview(reason string) *NotificationResult {
	return &NotificationResult{Status: NotificationNeedsReview, Reason: reason}
}

/* =========================================================
   Utils
========================================================= */

// truncate per rune supaya nama non-ASCII tidak terpotong di tengah karakter.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func firstNonEmpty(s, def string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return def
}
