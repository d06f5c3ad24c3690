package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
)

// UserProfileModel → `user_profiles`: role aplikasi per akun.
type UserProfileModel struct {
	UserProfileID     uuid.UUID `gorm:"column:user_profile_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_profile_id"`
	UserProfileUserID uuid.UUID `gorm:"column:user_profile_user_id;type:uuid;not null;uniqueIndex" json:"user_profile_user_id"`
	UserProfileEmail  string    `gorm:"column:user_profile_email;type:varchar(255);not null;index" json:"user_profile_email"`
	UserProfileName   string    `gorm:"column:user_profile_name;type:varchar(120);not null" json:"user_profile_name"`
	UserProfileRole   string    `gorm:"column:user_profile_role;type:varchar(20);not null;default:'cashier'" json:"user_profile_role"`
	UserProfileActive bool      `gorm:"column:user_profile_is_active;not null;default:true" json:"user_profile_is_active"`

	UserProfileCreatedAt time.Time `gorm:"column:user_profile_created_at;type:timestamptz;not null;default:now()" json:"user_profile_created_at"`
	UserProfileUpdatedAt time.Time `gorm:"column:user_profile_updated_at;type:timestamptz;not null;default:now()" json:"user_profile_updated_at"`
}

func (UserProfileModel) TableName() string { return "user_profiles" }

func (p *UserProfileModel) BeforeCreate(tx *gorm.DB) error {
	if p.UserProfileID == uuid.Nil {
		p.UserProfileID = uuid.New()
	}
	if p.UserProfileRole == "" {
		p.UserProfileRole = constants.RoleCashier
	}
	p.UserProfileEmail = NormalizeEmail(p.UserProfileEmail)
	now := time.Now()
	p.UserProfileCreatedAt = now
	p.UserProfileUpdatedAt = now
	return nil
}

func (p *UserProfileModel) BeforeUpdate(tx *gorm.DB) error {
	p.UserProfileUpdatedAt = time.Now()
	return nil
}
