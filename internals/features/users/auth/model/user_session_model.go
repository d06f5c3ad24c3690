package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSessionModel: satu baris per login. Token JWT membawa session id (claim "sid").
type UserSessionModel struct {
	UserSessionID     uuid.UUID `gorm:"column:user_session_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserSessionUserID uuid.UUID `gorm:"column:user_session_user_id;type:uuid;not null;index"`
	UserSessionEmail  string    `gorm:"column:user_session_email;type:varchar(255);not null"`
	UserSessionName   string    `gorm:"column:user_session_name;type:varchar(120)"`

	UserSessionExpiresAt  time.Time  `gorm:"column:user_session_expires_at;type:timestamptz;not null;index"`
	UserSessionRevokedAt  *time.Time `gorm:"column:user_session_revoked_at;type:timestamptz;index"`
	UserSessionLastSeenAt *time.Time `gorm:"column:user_session_last_seen_at;type:timestamptz"`

	UserSessionUserAgent string `gorm:"column:user_session_user_agent;type:text"`
	UserSessionIP        string `gorm:"column:user_session_ip;type:varchar(64)"`

	UserSessionCreatedAt time.Time `gorm:"column:user_session_created_at;type:timestamptz;not null;default:now()"`
}

func (UserSessionModel) TableName() string { return "user_sessions" }

func (s *UserSessionModel) BeforeCreate(tx *gorm.DB) error {
	if s.UserSessionID == uuid.Nil {
		s.UserSessionID = uuid.New()
	}
	s.UserSessionCreatedAt = time.Now()
	return nil
}

// Live: belum dicabut & belum kedaluwarsa.
func (s UserSessionModel) Live(now time.Time) bool {
	return s.UserSessionRevokedAt == nil && now.Before(s.UserSessionExpiresAt)
}
