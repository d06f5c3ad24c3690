// file: internals/features/school/classes/model/class_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassModel merepresentasikan tabel `classes`
type ClassModel struct {
	ClassID             uuid.UUID  `json:"class_id" gorm:"column:class_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClassInstitutionID  *uuid.UUID `json:"class_institution_id,omitempty" gorm:"column:class_institution_id;type:uuid;index"`
	ClassAcademicYearID *uuid.UUID `json:"class_academic_year_id,omitempty" gorm:"column:class_academic_year_id;type:uuid;index"`

	ClassName  string `json:"class_name" gorm:"column:class_name;type:varchar(120);not null"`
	ClassLevel int    `json:"class_level" gorm:"column:class_level;not null;default:1;index"`

	ClassCreatedAt time.Time      `json:"class_created_at" gorm:"column:class_created_at;type:timestamptz;not null;default:now()"`
	ClassUpdatedAt time.Time      `json:"class_updated_at" gorm:"column:class_updated_at;type:timestamptz;not null;default:now()"`
	ClassDeletedAt gorm.DeletedAt `json:"-" gorm:"column:class_deleted_at;type:timestamptz;index"`
}

func (ClassModel) TableName() string {
	return "classes"
}

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	now := time.Now()
	m.ClassCreatedAt = now
	m.ClassUpdatedAt = now
	return nil
}

func (m *ClassModel) BeforeUpdate(tx *gorm.DB) error {
	m.ClassUpdatedAt = time.Now()
	return nil
}
