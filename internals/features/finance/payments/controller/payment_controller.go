// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/dto"
	"sekolahku_backend/internals/features/finance/payments/model"
	"sekolahku_backend/internals/features/finance/payments/service"
	"sekolahku_backend/internals/features/finance/payments/store"
	authService "sekolahku_backend/internals/features/users/auth/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/dbtime"
)

type PaymentController struct {
	DB      *gorm.DB
	Service *service.PaymentService
}

func NewPaymentController(db *gorm.DB, svc *service.PaymentService) *PaymentController {
	return &PaymentController{DB: db, Service: svc}
}

func writePaymentError(c *fiber.Ctx, err error) error {
	var np *service.NotPayableError
	switch {
	case errors.Is(err, store.ErrStudentBillNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyPaid), errors.As(err, &np):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrFractionalAmount):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrAmountMismatch), errors.Is(err, service.ErrInvalidMethod):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGatewayDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	}
	if helper.IsUniqueViolation(err) {
		// balapan dua kasir di tagihan yang sama
		return helper.JsonError(c, fiber.StatusConflict, service.ErrAlreadyPaid.Error())
	}
	status, msg := helper.MapPGError(err)
	return helper.JsonError(c, status, msg)
}

// POST /payments
func (ctl *PaymentController) Create(c *fiber.Ctx, u authService.CurrentUser) error {
	var req dto.CreatePaymentRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}

	var receivedBy *uuid.UUID
	if u.UserID != uuid.Nil {
		id := u.UserID
		receivedBy = &id
	}
	in, err := req.ToInput(receivedBy)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	p, err := ctl.Service.Record(c.UserContext(), in)
	if err != nil {
		return writePaymentError(c, err)
	}
	return helper.JsonCreated(c, "Pembayaran tercatat", dto.FromModel(p))
}

/*
GET /payments?student_bill_id=&student_id=&method=&from=YYYY-MM-DD&to=YYYY-MM-DD
*/
func (ctl *PaymentController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 25, 500)

	studentBillID, err := helper.QueryUUID(c, "student_bill_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	studentID, err := helper.QueryUUID(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	q := ctl.DB.WithContext(c.UserContext()).
		Table("payments AS p").
		Joins("JOIN student_bills sb ON sb.student_bill_id = p.payment_student_bill_id").
		Joins("JOIN students s ON s.student_id = sb.student_bill_student_id").
		Joins("JOIN bills b ON b.bill_id = sb.student_bill_bill_id")

	if studentBillID != nil {
		q = q.Where("p.payment_student_bill_id = ?", *studentBillID)
	}
	if studentID != nil {
		q = q.Where("sb.student_bill_student_id = ?", *studentID)
	}
	if m := strings.TrimSpace(c.Query("method")); m != "" {
		if !model.PaymentMethod(m).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "method tidak valid")
		}
		q = q.Where("p.payment_method = ?", m)
	}
	loc := dbtime.SchoolLocation()
	if s := strings.TrimSpace(c.Query("from")); s != "" {
		d, err := dbtime.ParseDate(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		from := dbtime.StartOfDay(d, loc)
		q = q.Where("p.payment_date >= ?", from)
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		d, err := dbtime.ParseDate(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		q = q.Where("p.payment_date < ?", dbtime.StartOfDay(d, loc).AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung pembayaran")
	}

	rows := []dto.PaymentRow{}
	err = q.Select(`p.payment_id AS payment_id, p.payment_student_bill_id AS student_bill_id,
			p.payment_amount AS amount, p.payment_method AS method, p.payment_date AS payment_date,
			p.payment_notes AS notes, p.payment_received_by AS received_by,
			p.payment_gateway_order_id AS gateway_order_id,
			s.student_id AS student_id, s.student_name AS student_name, s.student_nis AS student_nis,
			b.bill_code AS bill_code, b.bill_name AS bill_name, sb.student_bill_due_date AS due_date`).
		Order("p.payment_date DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pembayaran")
	}

	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p, len(rows)))
}

// POST /student-bills/:id/checkout → snap token Midtrans
func (ctl *PaymentController) Checkout(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res, err := ctl.Service.Checkout(c.UserContext(), id)
	if err != nil {
		var np *service.NotPayableError
		if errors.Is(err, store.ErrStudentBillNotFound) || errors.Is(err, service.ErrAlreadyPaid) ||
			errors.As(err, &np) || errors.Is(err, service.ErrGatewayDisabled) ||
			errors.Is(err, service.ErrFractionalAmount) {
			return writePaymentError(c, err)
		}
		return helper.JsonError(c, fiber.StatusBadGateway, err.Error())
	}
	return helper.JsonCreated(c, "Checkout dibuat", res)
}

/*
POST /api/payments/notification (publik, dipanggil Midtrans).
Selain signature salah (401) & error storage (500), selalu 200 supaya Midtrans
berhenti retry. needs_review (uang masuk tapi tidak tercatat) tetap 200; penanganannya
manual dari payment_gateway_events berstatus failed.
*/
func (ctl *PaymentController) Notification(c *fiber.Ctx) error {
	var n service.Notification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	raw := append([]byte(nil), c.Body()...)

	res, err := ctl.Service.HandleNotification(c.UserContext(), n, raw)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			log.Printf("[MIDTRANS] signature salah order=%s ip=%s", n.OrderID, c.IP())
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}
		log.Printf("[MIDTRANS] gagal memproses order=%s: %v", n.OrderID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal memproses notifikasi")
	}
	return helper.JsonOK(c, res.Status, res)
}
