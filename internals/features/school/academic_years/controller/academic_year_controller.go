package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sekolahku_backend/internals/features/school/academic_years/dto"
	"sekolahku_backend/internals/features/school/academic_years/model"
	helper "sekolahku_backend/internals/helpers"
)

type AcademicYearController struct {
	DB *gorm.DB
}

func NewAcademicYearController(db *gorm.DB) *AcademicYearController {
	return &AcademicYearController{DB: db}
}

// GET /academic-years?active=true
func (ctl *AcademicYearController) List(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.AcademicYearModel{})
	if c.QueryBool("active") {
		q = q.Where("academic_year_is_active = TRUE")
	}
	var rows []model.AcademicYearModel
	if err := q.Order("academic_year_start_date DESC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil tahun ajaran")
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), nil)
}

func (ctl *AcademicYearController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m model.AcademicYearModel
	if err := ctl.DB.WithContext(c.UserContext()).First(&m, "academic_year_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tahun ajaran tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

func (ctl *AcademicYearController) Create(c *fiber.Ctx) error {
	var in dto.AcademicYearCreateRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}
	m, err := in.ToModel()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if m.AcademicYearIsActive {
			if err := deactivateAll(tx); err != nil {
				return err
			}
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}
	return helper.JsonCreated(c, "Tahun ajaran dibuat", dto.FromModel(m))
}

func (ctl *AcademicYearController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var in dto.AcademicYearUpdateRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}

	var m model.AcademicYearModel
	if err := ctl.DB.WithContext(c.UserContext()).First(&m, "academic_year_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tahun ajaran tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := in.Apply(&m); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(&m).Error; err != nil {
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}
	return helper.JsonUpdated(c, "Tahun ajaran diperbarui", dto.FromModel(m))
}

// POST /academic-years/:id/activate — satu-satunya yang aktif.
func (ctl *AcademicYearController) Activate(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var m model.AcademicYearModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "academic_year_id = ?", id).Error; err != nil {
			return err
		}
		if err := deactivateAll(tx); err != nil {
			return err
		}
		m.AcademicYearIsActive = true
		return tx.Model(&m).Update("academic_year_is_active", true).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tahun ajaran tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	log.Printf("[INFO] tahun ajaran aktif: %s (%s)", m.AcademicYearCode, m.AcademicYearID)
	return helper.JsonUpdated(c, "Tahun ajaran diaktifkan", dto.FromModel(m))
}

func (ctl *AcademicYearController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctl.DB.WithContext(c.UserContext()).Delete(&model.AcademicYearModel{}, "academic_year_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Tahun ajaran tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Tahun ajaran dihapus", fiber.Map{"academic_year_id": id})
}

func deactivateAll(tx *gorm.DB) error {
	return tx.Model(&model.AcademicYearModel{}).
		Where("academic_year_is_active = TRUE").
		Update("academic_year_is_active", false).Error
}
