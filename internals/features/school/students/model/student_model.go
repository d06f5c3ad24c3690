package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusGraduated StudentStatus = "graduated"
)

func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusGraduated:
		return true
	}
	return false
}

// StudentModel → tabel `students`. NIS unik secara konvensi (index biasa, bukan unique).
type StudentModel struct {
	StudentID      uuid.UUID     `gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_id"`
	StudentNIS     string        `gorm:"column:student_nis;type:varchar(40);not null;index" json:"student_nis"`
	StudentName    string        `gorm:"column:student_name;type:varchar(160);not null" json:"student_name"`
	StudentClassID *uuid.UUID    `gorm:"column:student_class_id;type:uuid;index" json:"student_class_id,omitempty"`
	StudentStatus  StudentStatus `gorm:"column:student_status;type:varchar(20);not null;default:'active';index" json:"student_status"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;type:timestamptz;not null;default:now()" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;type:timestamptz;not null;default:now()" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;type:timestamptz;index" json:"-"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	if m.StudentStatus == "" {
		m.StudentStatus = StudentStatusActive
	}
	now := time.Now()
	m.StudentCreatedAt = now
	m.StudentUpdatedAt = now
	return nil
}

func (m *StudentModel) BeforeUpdate(tx *gorm.DB) error {
	m.StudentUpdatedAt = time.Now()
	return nil
}
