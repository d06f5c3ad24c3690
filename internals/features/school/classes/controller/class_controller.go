package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/classes/dto"
	"sekolahku_backend/internals/features/school/classes/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
	helper "sekolahku_backend/internals/helpers"
)

type ClassController struct {
	DB *gorm.DB
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db}
}

/*
GET /classes?level=&academic_year_id=&q=&page=&per_page=
*/
func (ctl *ClassController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)

	yearID, err := helper.QueryUUID(c, "academic_year_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.ClassModel{})
	if lv := c.QueryInt("level"); lv > 0 {
		q = q.Where("class_level = ?", lv)
	}
	if yearID != nil {
		q = q.Where("class_academic_year_id = ?", *yearID)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("class_name ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung kelas")
	}
	var rows []model.ClassModel
	if err := q.Order("class_level ASC, class_name ASC").
		Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil kelas")
	}

	counts, err := ctl.studentCounts(c, rows)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung siswa")
	}
	out := make([]dto.ClassResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r, counts[r.ClassID]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(total, p, len(out)))
}

// jumlah siswa aktif per kelas (satu query GROUP BY)
func (ctl *ClassController) studentCounts(c *fiber.Ctx, rows []model.ClassModel) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ClassID)
	}
	var agg []struct {
		ClassID uuid.UUID
		N       int64
	}
	err := ctl.DB.WithContext(c.UserContext()).
		Model(&studentModel.StudentModel{}).
		Select("student_class_id AS class_id, COUNT(*) AS n").
		Where("student_class_id IN ? AND student_status = ?", ids, studentModel.StudentStatusActive).
		Group("student_class_id").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	for _, a := range agg {
		out[a.ClassID] = a.N
	}
	return out, nil
}

func (ctl *ClassController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.find(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	counts, err := ctl.studentCounts(c, []model.ClassModel{*m})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung siswa")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*m, counts[m.ClassID]))
}

func (ctl *ClassController) Create(c *fiber.Ctx) error {
	var in dto.ClassCreateRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}
	m := in.ToModel()
	if err := ctl.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}
	return helper.JsonCreated(c, "Kelas dibuat", dto.FromModel(m, 0))
}

func (ctl *ClassController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var in dto.ClassUpdateRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}
	m, err := ctl.find(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	in.Apply(m)
	if err := ctl.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}
	return helper.JsonUpdated(c, "Kelas diperbarui", dto.FromModel(*m, 0))
}

// DELETE: ditolak kalau masih ada siswa aktif di kelas ini
func (ctl *ClassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var n int64
	if err := ctl.DB.WithContext(c.UserContext()).Model(&studentModel.StudentModel{}).
		Where("student_class_id = ? AND student_status = ?", id, studentModel.StudentStatusActive).
		Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if n > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Kelas masih memiliki siswa aktif")
	}
	res := ctl.DB.WithContext(c.UserContext()).Delete(&model.ClassModel{}, "class_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Kelas dihapus", fiber.Map{"class_id": id})
}

// find → *fiber.Error (404/500) supaya caller cukup FromFiberError.
func (ctl *ClassController) find(c *fiber.Ctx, id uuid.UUID) (*model.ClassModel, error) {
	var m model.ClassModel
	if err := ctl.DB.WithContext(c.UserContext()).First(&m, "class_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &m, nil
}
