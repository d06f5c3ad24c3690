package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"sekolahku_backend/internals/features/school/students/model"
)

type StudentCreateRequest struct {
	NIS     string     `json:"student_nis" validate:"required,max=40"`
	Name    string     `json:"student_name" validate:"required,max=160"`
	ClassID *uuid.UUID `json:"student_class_id,omitempty"`
	Status  string     `json:"student_status,omitempty" validate:"omitempty,oneof=active inactive graduated"`
}

func (r StudentCreateRequest) ToModel() model.StudentModel {
	m := model.StudentModel{
		StudentNIS:     strings.TrimSpace(r.NIS),
		StudentName:    strings.TrimSpace(r.Name),
		StudentClassID: r.ClassID,
		StudentStatus:  model.StudentStatus(r.Status),
	}
	if m.StudentStatus == "" {
		m.StudentStatus = model.StudentStatusActive
	}
	return m
}

type StudentUpdateRequest struct {
	NIS     *string    `json:"student_nis,omitempty" validate:"omitempty,max=40"`
	Name    *string    `json:"student_name,omitempty" validate:"omitempty,max=160"`
	ClassID *uuid.UUID `json:"student_class_id,omitempty"`
	// kosongkan kelas: "clear_class": true
	ClearClass bool    `json:"clear_class,omitempty"`
	Status     *string `json:"student_status,omitempty" validate:"omitempty,oneof=active inactive graduated"`
}

func (r StudentUpdateRequest) Apply(m *model.StudentModel) {
	if r.NIS != nil {
		m.StudentNIS = strings.TrimSpace(*r.NIS)
	}
	if r.Name != nil {
		m.StudentName = strings.TrimSpace(*r.Name)
	}
	if r.ClearClass {
		m.StudentClassID = nil
	} else if r.ClassID != nil {
		m.StudentClassID = r.ClassID
	}
	if r.Status != nil {
		m.StudentStatus = model.StudentStatus(*r.Status)
	}
}

type StudentResponse struct {
	ID        uuid.UUID  `json:"student_id"`
	NIS       string     `json:"student_nis"`
	Name      string     `json:"student_name"`
	ClassID   *uuid.UUID `json:"student_class_id,omitempty"`
	Status    string     `json:"student_status"`
	CreatedAt time.Time  `json:"student_created_at"`
	UpdatedAt time.Time  `json:"student_updated_at"`
}

func FromModel(m model.StudentModel) StudentResponse {
	return StudentResponse{
		ID:        m.StudentID,
		NIS:       m.StudentNIS,
		Name:      m.StudentName,
		ClassID:   m.StudentClassID,
		Status:    string(m.StudentStatus),
		CreatedAt: m.StudentCreatedAt,
		UpdatedAt: m.StudentUpdatedAt,
	}
}

func FromModels(list []model.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
