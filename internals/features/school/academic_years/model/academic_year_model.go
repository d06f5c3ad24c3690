// file: internals/features/school/academic_years/model/academic_year_model.go
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AcademicYearModel merepresentasikan tabel `academic_years`.
// Maksimal satu baris aktif (dijaga di aplikasi, tidak di constraint DB).
type AcademicYearModel struct {
	AcademicYearID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:academic_year_id" json:"academic_year_id"`

	// Example code: "2025/2026"
	AcademicYearCode        string  `gorm:"type:varchar(24);not null;column:academic_year_code" json:"academic_year_code"`
	AcademicYearDescription *string `gorm:"type:text;column:academic_year_description" json:"academic_year_description,omitempty"`

	AcademicYearStartDate time.Time `gorm:"type:date;not null;column:academic_year_start_date" json:"academic_year_start_date"`
	AcademicYearEndDate   time.Time `gorm:"type:date;not null;column:academic_year_end_date" json:"academic_year_end_date"`
	AcademicYearIsActive  bool      `gorm:"not null;default:false;index;column:academic_year_is_active" json:"academic_year_is_active"`

	AcademicYearCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:academic_year_created_at" json:"academic_year_created_at"`
	AcademicYearUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:academic_year_updated_at" json:"academic_year_updated_at"`
	AcademicYearDeletedAt gorm.DeletedAt `gorm:"type:timestamptz;index;column:academic_year_deleted_at" json:"-"`
}

func (AcademicYearModel) TableName() string { return "academic_years" }

func (m *AcademicYearModel) Validate() error {
	m.AcademicYearCode = strings.TrimSpace(m.AcademicYearCode)
	if m.AcademicYearCode == "" {
		return errors.New("academic_year_code wajib diisi")
	}
	if m.AcademicYearEndDate.Before(m.AcademicYearStartDate) {
		return errors.New("academic_year_end_date harus >= academic_year_start_date")
	}
	return nil
}

func (m *AcademicYearModel) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicYearID == uuid.Nil {
		m.AcademicYearID = uuid.New()
	}
	now := time.Now()
	if m.AcademicYearCreatedAt.IsZero() {
		m.AcademicYearCreatedAt = now
	}
	m.AcademicYearUpdatedAt = now
	return m.Validate()
}

func (m *AcademicYearModel) BeforeUpdate(tx *gorm.DB) error {
	m.AcademicYearUpdatedAt = time.Now()
	return nil
}
