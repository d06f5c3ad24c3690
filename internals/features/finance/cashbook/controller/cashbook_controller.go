package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/cashbook/dto"
	"sekolahku_backend/internals/features/finance/cashbook/model"
	authService "sekolahku_backend/internals/features/users/auth/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/dbtime"
)

type CashbookController struct {
	DB *gorm.DB
}

func NewCashbookController(db *gorm.DB) *CashbookController {
	return &CashbookController{DB: db}
}

// GET /cashbook?kind=&category=&from=&to=
func (ctl *CashbookController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 500)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.CashbookEntryModel{})

	if k := strings.TrimSpace(c.Query("kind")); k != "" {
		if !model.CashbookKind(k).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, model.ErrCashbookKind.Error())
		}
		q = q.Where("cashbook_entry_kind = ?", k)
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		q = q.Where("cashbook_entry_category = ?", strings.ToLower(cat))
	}
	if s := strings.TrimSpace(c.Query("from")); s != "" {
		d, err := dbtime.ParseDate(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		q = q.Where("cashbook_entry_date >= ?", d)
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		d, err := dbtime.ParseDate(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		q = q.Where("cashbook_entry_date <= ?", d)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung buku kas")
	}
	var rows []model.CashbookEntryModel
	if err := q.Order("cashbook_entry_date DESC, cashbook_entry_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil buku kas")
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

// POST /cashbook
func (ctl *CashbookController) Create(c *fiber.Ctx, u authService.CurrentUser) error {
	var req dto.CreateEntryRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	var by *uuid.UUID
	if u.UserID != uuid.Nil {
		id := u.UserID
		by = &id
	}
	m, err := req.ToModel(by)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}
	return helper.JsonCreated(c, "Entri kas dibuat", dto.FromModel(m))
}

// DELETE /cashbook/:id — entri hasil pembayaran tidak bisa dihapus manual.
func (ctl *CashbookController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m model.CashbookEntryModel
	if err := ctl.DB.WithContext(c.UserContext()).First(&m, "cashbook_entry_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Entri kas tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil entri kas")
	}
	if m.CashbookEntryPaymentID != nil {
		return helper.JsonError(c, fiber.StatusConflict, "Entri dari pembayaran tagihan tidak bisa dihapus")
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus entri kas")
	}
	return helper.JsonDeleted(c, "Entri kas dihapus", fiber.Map{"id": id})
}
