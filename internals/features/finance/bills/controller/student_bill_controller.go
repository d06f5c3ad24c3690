package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sekolahku_backend/internals/features/finance/bills/dto"
	"sekolahku_backend/internals/features/finance/bills/model"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/dbtime"
)

type StudentBillController struct {
	DB *gorm.DB
}

func NewStudentBillController(db *gorm.DB) *StudentBillController {
	return &StudentBillController{DB: db}
}

/*
GET /student-bills?bill_id=&student_id=&class_id=&status=&month=YYYY-MM&q=
*/
func (ctl *StudentBillController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 25, 500)

	billID, err := helper.QueryUUID(c, "bill_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	studentID, err := helper.QueryUUID(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.QueryUUID(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	q := ctl.DB.WithContext(c.UserContext()).
		Table("student_bills AS sb").
		Joins("JOIN students s ON s.student_id = sb.student_bill_student_id").
		Joins("JOIN bills b ON b.bill_id = sb.student_bill_bill_id")

	if billID != nil {
		q = q.Where("sb.student_bill_bill_id = ?", *billID)
	}
	if studentID != nil {
		q = q.Where("sb.student_bill_student_id = ?", *studentID)
	}
	if classID != nil {
		q = q.Where("s.student_class_id = ?", *classID)
	}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		if !model.StudentBillStatus(st).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "status tidak valid")
		}
		q = q.Where("sb.student_bill_status = ?", st)
	}
	if m := strings.TrimSpace(c.Query("month")); m != "" {
		month, err := dbtime.ParseMonth(m)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		q = q.Where("sb.student_bill_due_date BETWEEN ? AND ?", month, dbtime.MonthEnd(month))
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("(s.student_name ILIKE ? OR s.student_nis ILIKE ?)", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung tagihan siswa")
	}

	var rows []dto.StudentBillRow
	err = q.Select(`
		sb.student_bill_id, sb.student_bill_amount, sb.student_bill_due_date,
		sb.student_bill_status, sb.student_bill_paid_at, sb.student_bill_note,
		s.student_id, s.student_nis, s.student_name,
		b.bill_id, b.bill_code, b.bill_name`).
		Order("sb.student_bill_due_date ASC, s.student_name ASC").
		Limit(p.Limit).Offset(p.Offset).
		Scan(&rows).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil tagihan siswa")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p, len(rows)))
}

// POST /student-bills/:id/cancel — pending/overdue → cancelled (final).
func (ctl *StudentBillController) Cancel(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var in dto.CancelStudentBillRequest
	if len(c.Body()) > 0 {
		if ok, err := helper.BindAndValidate(c, &in); !ok {
			return err
		}
	}

	var sb model.StudentBillModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sb, "student_bill_id = ?", id).Error; err != nil {
			return err
		}
		if !sb.StudentBillStatus.Payable() {
			return fiber.NewError(fiber.StatusConflict, "Tagihan berstatus "+string(sb.StudentBillStatus)+" tidak bisa dibatalkan")
		}
		updates := map[string]any{
			"student_bill_status":     model.StudentBillCancelled,
			"student_bill_updated_at": time.Now(),
		}
		if note := strings.TrimSpace(in.Note); note != "" {
			updates["student_bill_note"] = note
			sb.StudentBillNote = &note
		}
		sb.StudentBillStatus = model.StudentBillCancelled
		return tx.Model(&model.StudentBillModel{}).
			Where("student_bill_id = ?", id).
			Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tagihan siswa tidak ditemukan")
		}
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Tagihan dibatalkan", sb)
}
