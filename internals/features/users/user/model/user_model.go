package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel: identitas login (kredensial). Role & status aktif ada di user_profiles.
type UserModel struct {
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`
	UserEmail        string    `gorm:"column:user_email;type:varchar(255);not null;uniqueIndex" json:"user_email"`
	UserPasswordHash string    `gorm:"column:user_password_hash;type:text;not null" json:"-"`
	// nama dari metadata akun; dipakai identitas fallback
	UserName string `gorm:"column:user_name;type:varchar(120)" json:"user_name"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;type:timestamptz;not null;default:now()" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;type:timestamptz;not null;default:now()" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	u.UserEmail = NormalizeEmail(u.UserEmail)
	if u.UserEmail == "" {
		return errors.New("user_email wajib diisi")
	}
	now := time.Now()
	u.UserCreatedAt = now
	u.UserUpdatedAt = now
	return nil
}

func (u *UserModel) BeforeUpdate(tx *gorm.DB) error {
	u.UserUpdatedAt = time.Now()
	return nil
}
