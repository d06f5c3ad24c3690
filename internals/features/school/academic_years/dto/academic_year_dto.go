package dto

import (
	"time"

	"github.com/google/uuid"

	"sekolahku_backend/internals/features/school/academic_years/model"
	"sekolahku_backend/internals/helpers/dbtime"
)

type AcademicYearCreateRequest struct {
	Code        string  `json:"academic_year_code" validate:"required,max=24"`
	Description *string `json:"academic_year_description,omitempty"`
	StartDate   string  `json:"academic_year_start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"academic_year_end_date" validate:"required,datetime=2006-01-02"`
	IsActive    bool    `json:"academic_year_is_active"`
}

func (r AcademicYearCreateRequest) ToModel() (model.AcademicYearModel, error) {
	start, err := dbtime.ParseDate(r.StartDate)
	if err != nil {
		return model.AcademicYearModel{}, err
	}
	end, err := dbtime.ParseDate(r.EndDate)
	if err != nil {
		return model.AcademicYearModel{}, err
	}
	m := model.AcademicYearModel{
		AcademicYearCode:        r.Code,
		AcademicYearDescription: r.Description,
		AcademicYearStartDate:   start,
		AcademicYearEndDate:     end,
		AcademicYearIsActive:    r.IsActive,
	}
	return m, m.Validate()
}

// Update parsial (status aktif diatur lewat endpoint activate)
type AcademicYearUpdateRequest struct {
	Code        *string `json:"academic_year_code,omitempty" validate:"omitempty,max=24"`
	Description *string `json:"academic_year_description,omitempty"`
	StartDate   *string `json:"academic_year_start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"academic_year_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r AcademicYearUpdateRequest) Apply(m *model.AcademicYearModel) error {
	if r.Code != nil {
		m.AcademicYearCode = *r.Code
	}
	if r.Description != nil {
		m.AcademicYearDescription = r.Description
	}
	if r.StartDate != nil {
		t, err := dbtime.ParseDate(*r.StartDate)
		if err != nil {
			return err
		}
		m.AcademicYearStartDate = t
	}
	if r.EndDate != nil {
		t, err := dbtime.ParseDate(*r.EndDate)
		if err != nil {
			return err
		}
		m.AcademicYearEndDate = t
	}
	return m.Validate()
}

type AcademicYearResponse struct {
	ID          uuid.UUID `json:"academic_year_id"`
	Code        string    `json:"academic_year_code"`
	Description *string   `json:"academic_year_description,omitempty"`
	StartDate   string    `json:"academic_year_start_date"`
	EndDate     string    `json:"academic_year_end_date"`
	IsActive    bool      `json:"academic_year_is_active"`
	CreatedAt   time.Time `json:"academic_year_created_at"`
	UpdatedAt   time.Time `json:"academic_year_updated_at"`
}

func FromModel(m model.AcademicYearModel) AcademicYearResponse {
	return AcademicYearResponse{
		ID:          m.AcademicYearID,
		Code:        m.AcademicYearCode,
		Description: m.AcademicYearDescription,
		StartDate:   m.AcademicYearStartDate.Format(dbtime.DateLayout),
		EndDate:     m.AcademicYearEndDate.Format(dbtime.DateLayout),
		IsActive:    m.AcademicYearIsActive,
		CreatedAt:   m.AcademicYearCreatedAt,
		UpdatedAt:   m.AcademicYearUpdatedAt,
	}
}

func FromModels(list []model.AcademicYearModel) []AcademicYearResponse {
	out := make([]AcademicYearResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
