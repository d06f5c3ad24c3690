package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "sekolahku_backend/internals/features/users/auth/model"
	userModel "sekolahku_backend/internals/features/users/user/model"
)

// GormSessionSource: token JWT → baris user_sessions yang masih hidup.
type GormSessionSource struct {
	DB     *gorm.DB
	Tokens *TokenIssuer
}

func (s *GormSessionSource) CurrentSession(ctx context.Context, token string) (*Identity, error) {
	id, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, nil
	}
	var row authModel.UserSessionModel
	err = s.DB.WithContext(ctx).
		Where("user_session_id = ? AND user_session_user_id = ?", id.SessionID, id.UserID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	now := time.Now()
	if !row.Live(now) {
		return nil, nil
	}
	// last_seen cukup best-effort
	s.DB.WithContext(ctx).Model(&authModel.UserSessionModel{}).
		Where("user_session_id = ?", row.UserSessionID).
		Update("user_session_last_seen_at", now)

	return &Identity{
		UserID:    row.UserSessionUserID,
		SessionID: row.UserSessionID,
		Email:     row.UserSessionEmail,
		Name:      row.UserSessionName,
	}, nil
}

type GormProfileSource struct {
	DB *gorm.DB
}

func (s *GormProfileSource) ProfileByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p userModel.UserProfileModel
	err := s.DB.WithContext(ctx).Where("user_profile_user_id = ?", userID).Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &Profile{
		ID:       p.UserProfileID,
		UserID:   p.UserProfileUserID,
		Email:    p.UserProfileEmail,
		Name:     p.UserProfileName,
		Role:     p.UserProfileRole,
		IsActive: p.UserProfileActive,
	}, nil
}

var (
	_ SessionSource = (*GormSessionSource)(nil)
	_ ProfileSource = (*GormProfileSource)(nil)
)
