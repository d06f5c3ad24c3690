package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/bills/dto"
	"sekolahku_backend/internals/features/finance/bills/model"
	"sekolahku_backend/internals/features/finance/bills/service"
	"sekolahku_backend/internals/features/finance/bills/store"
	helper "sekolahku_backend/internals/helpers"
)

type BillController struct {
	DB        *gorm.DB
	Store     store.Store
	Generator *service.Generator
	Editor    *service.MonthlyEditor
}

func NewBillController(db *gorm.DB, s store.Store) *BillController {
	return &BillController{
		DB:        db,
		Store:     s,
		Generator: service.NewGenerator(s),
		Editor:    service.NewMonthlyEditor(s),
	}
}

// writeServiceError: sentinel service → HTTP.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTargetClassRequired),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrStartDateRequired),
		errors.Is(err, service.ErrNonPositiveAmount),
		errors.Is(err, service.ErrFractionalAmount),
		errors.Is(err, service.ErrNoMonths),
		errors.Is(err, service.ErrDuplicateMonth):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrBillNotFound), errors.Is(err, store.ErrStudentBillNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	}
	status, msg := helper.MapPGError(err)
	return helper.JsonError(c, status, msg)
}

/* =========================
   Registry
   ========================= */

// GET /bills?q=&status=&category=&academic_year_id=
func (ctl *BillController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)

	yearID, err := helper.QueryUUID(c, "academic_year_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.BillModel{})
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		q = q.Where("bill_status = ?", st)
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		q = q.Where("bill_category = ?", cat)
	}
	if yearID != nil {
		q = q.Where("bill_academic_year_id = ?", *yearID)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("(bill_name ILIKE ? OR bill_code ILIKE ?)", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung tagihan")
	}
	var rows []model.BillModel
	if err := q.Order("bill_code ASC").Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil tagihan")
	}
	return helper.JsonList(c, "ok", dto.FromBills(rows), helper.BuildPagination(total, p, len(rows)))
}

func (ctl *BillController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	bill, err := ctl.Store.GetBill(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromBill(*bill))
}

func (ctl *BillController) Create(c *fiber.Ctx) error {
	var in dto.BillCreateRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}
	m := in.ToModel()
	if err := m.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}
	return helper.JsonCreated(c, "Tagihan dibuat", dto.FromBill(m))
}

// PATCH /bills/:id — tidak mengubah student_bills yang sudah digenerate.
func (ctl *BillController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var in dto.BillUpdateRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}

	bill, err := ctl.Store.GetBill(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	in.Apply(bill)
	if err := bill.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(bill).Error; err != nil {
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}
	return helper.JsonUpdated(c, "Tagihan diperbarui", dto.FromBill(*bill))
}

// DELETE soft; baris student_bills tetap mereferensikan template ini.
func (ctl *BillController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctl.DB.WithContext(c.UserContext()).Delete(&model.BillModel{}, "bill_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, store.ErrBillNotFound.Error())
	}
	return helper.JsonDeleted(c, "Tagihan dihapus", fiber.Map{"bill_id": id})
}

/* =========================
   Generator & editor bulanan
   ========================= */

// POST /bills/:id/assign
func (ctl *BillController) Assign(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.AssignRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := ctl.Generator.AssignByID(c.UserContext(), id, in)
	if err != nil {
		return writeServiceError(c, err)
	}

	msg := "Tagihan berhasil dibuat"
	switch res.Outcome {
	case service.OutcomeNoStudents:
		msg = "Tidak ada siswa pada target"
	case service.OutcomeNothingToDo:
		msg = "Semua tagihan sudah ada, tidak ada perubahan"
	}
	return helper.JsonOK(c, msg, dto.FromAssignResult(res))
}

// GET /bills/:id/monthly
func (ctl *BillController) GetMonthly(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	bill, err := ctl.Store.GetBill(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	view, err := ctl.Editor.Load(c.UserContext(), *bill)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromMonthlyView(view))
}

// PUT /bills/:id/monthly
func (ctl *BillController) SaveMonthly(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.MonthlySaveRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	edits, target, err := req.ToEdits()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if _, err := ctl.Store.GetBill(c.UserContext(), id); err != nil {
		return writeServiceError(c, err)
	}

	res, err := ctl.Editor.Save(c.UserContext(), id, edits, target)
	if err != nil {
		if res != nil && res.MonthsApplied > 0 {
			// sebagian bulan sudah tersimpan
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success":    false,
				"message":    err.Error(),
				"error_code": "PARTIAL_UPDATE",
				"data":       res,
			})
		}
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Nominal bulanan diperbarui", res)
}
