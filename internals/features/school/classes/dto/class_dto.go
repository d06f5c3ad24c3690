package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"sekolahku_backend/internals/features/school/classes/model"
)

type ClassCreateRequest struct {
	Name           string     `json:"class_name" validate:"required,max=120"`
	Level          int        `json:"class_level" validate:"required,min=1,max=12"`
	InstitutionID  *uuid.UUID `json:"class_institution_id,omitempty"`
	AcademicYearID *uuid.UUID `json:"class_academic_year_id,omitempty"`
}

func (r ClassCreateRequest) ToModel() model.ClassModel {
	return model.ClassModel{
		ClassName:           strings.TrimSpace(r.Name),
		ClassLevel:          r.Level,
		ClassInstitutionID:  r.InstitutionID,
		ClassAcademicYearID: r.AcademicYearID,
	}
}

type ClassUpdateRequest struct {
	Name           *string    `json:"class_name,omitempty" validate:"omitempty,max=120"`
	Level          *int       `json:"class_level,omitempty" validate:"omitempty,min=1,max=12"`
	InstitutionID  *uuid.UUID `json:"class_institution_id,omitempty"`
	AcademicYearID *uuid.UUID `json:"class_academic_year_id,omitempty"`
}

func (r ClassUpdateRequest) Apply(m *model.ClassModel) {
	if r.Name != nil {
		m.ClassName = strings.TrimSpace(*r.Name)
	}
	if r.Level != nil {
		m.ClassLevel = *r.Level
	}
	if r.InstitutionID != nil {
		m.ClassInstitutionID = r.InstitutionID
	}
	if r.AcademicYearID != nil {
		m.ClassAcademicYearID = r.AcademicYearID
	}
}

type ClassResponse struct {
	ID             uuid.UUID  `json:"class_id"`
	Name           string     `json:"class_name"`
	Level          int        `json:"class_level"`
	InstitutionID  *uuid.UUID `json:"class_institution_id,omitempty"`
	AcademicYearID *uuid.UUID `json:"class_academic_year_id,omitempty"`
	StudentCount   int64      `json:"class_student_count"`
	CreatedAt      time.Time  `json:"class_created_at"`
	UpdatedAt      time.Time  `json:"class_updated_at"`
}

func FromModel(m model.ClassModel, students int64) ClassResponse {
	return ClassResponse{
		ID:             m.ClassID,
		Name:           m.ClassName,
		Level:          m.ClassLevel,
		InstitutionID:  m.ClassInstitutionID,
		AcademicYearID: m.ClassAcademicYearID,
		StudentCount:   students,
		CreatedAt:      m.ClassCreatedAt,
		UpdatedAt:      m.ClassUpdatedAt,
	}
}
