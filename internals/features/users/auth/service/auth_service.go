package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authModel "sekolahku_backend/internals/features/users/auth/model"
	userModel "sekolahku_backend/internals/features/users/user/model"
)

var (
	ErrInvalidCredentials = errors.New("email atau password salah")
	ErrAccountInactive    = errors.New("akun dinonaktifkan")
)

// LockedError: terlalu banyak percobaan login.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("terlalu banyak percobaan login, coba lagi dalam %d menit", int(e.RetryAfter.Minutes())+1)
}

// CredentialError: password salah + sisa percobaan.
type CredentialError struct {
	Remaining int
}

func (e *CredentialError) Error() string { return ErrInvalidCredentials.Error() }
func (e *CredentialError) Unwrap() error { return ErrInvalidCredentials }

type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      CurrentUser
}

// AuthService: login/logout di atas tabel users + user_sessions.
type AuthService struct {
	DB        *gorm.DB
	Tokens    *TokenIssuer
	Policy    *AuthPolicy
	Bootstrap *Bootstrap
}

func NewAuthService(db *gorm.DB, tokens *TokenIssuer, policy *AuthPolicy, boot *Bootstrap) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Policy: policy, Bootstrap: boot}
}

func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := userModel.NormalizeEmail(in.Email)
	key := LoginKey(email, in.IP)
	if ok, wait := s.Policy.AllowLogin(key); !ok {
		return nil, &LockedError{RetryAfter: wait}
	}

	var user userModel.UserModel
	err := s.DB.WithContext(ctx).Where("user_email = ?", email).Take(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.UserPasswordHash), []byte(in.Password)) != nil {
		left := s.Policy.RegisterFailure(key)
		log.Printf("[AUTH] login gagal untuk %s (sisa %d)", email, left)
		return nil, &CredentialError{Remaining: left}
	}

	var profile userModel.UserProfileModel
	perr := s.DB.WithContext(ctx).Where("user_profile_user_id = ?", user.UserID).Take(&profile).Error
	if perr == nil && !profile.UserProfileActive {
		return nil, ErrAccountInactive
	}
	s.Policy.ResetLogin(key)

	session := authModel.UserSessionModel{
		UserSessionUserID:    user.UserID,
		UserSessionEmail:     user.UserEmail,
		UserSessionName:      user.UserName,
		UserSessionExpiresAt: time.Now().Add(s.Tokens.TTL),
		UserSessionUserAgent: in.UserAgent,
		UserSessionIP:        in.IP,
	}
	if err := s.DB.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}

	id := Identity{UserID: user.UserID, SessionID: session.UserSessionID, Email: user.UserEmail, Name: user.UserName}
	token, exp, err := s.Tokens.Issue(id)
	if err != nil {
		return nil, err
	}
	u := s.Bootstrap.HandleEvent(ctx, AuthEvent{Kind: EventSignedIn, Identity: id})
	log.Printf("[AUTH] ✅ login %s role=%s fallback=%v", email, u.Role, u.Fallback)
	return &LoginResult{Token: token, ExpiresAt: exp, User: *u}, nil
}

// Logout: cabut sesi + hentikan timer.
func (s *AuthService) Logout(ctx context.Context, u CurrentUser) error {
	if err := s.RevokeSession(ctx, u.SessionID); err != nil {
		return err
	}
	s.Bootstrap.HandleEvent(ctx, AuthEvent{
		Kind:     EventSignedOut,
		Identity: Identity{UserID: u.UserID, SessionID: u.SessionID, Email: u.Email},
	})
	return nil
}

func (s *AuthService) RevokeSession(ctx context.Context, sessionID uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Model(&authModel.UserSessionModel{}).
		Where("user_session_id = ? AND user_session_revoked_at IS NULL", sessionID).
		Update("user_session_revoked_at", time.Now()).Error
}

// RevokeUserSessions: semua sesi user (dipakai saat profil dinonaktifkan / role berubah).
func (s *AuthService) RevokeUserSessions(ctx context.Context, userID uuid.UUID) error {
	var ids []uuid.UUID
	if err := s.DB.WithContext(ctx).
		Model(&authModel.UserSessionModel{}).
		Where("user_session_user_id = ? AND user_session_revoked_at IS NULL", userID).
		Pluck("user_session_id", &ids).Error; err != nil {
		return err
	}
	if len(ids) > 0 {
		if err := s.DB.WithContext(ctx).
			Model(&authModel.UserSessionModel{}).
			Where("user_session_id IN ?", ids).
			Update("user_session_revoked_at", time.Now()).Error; err != nil {
			return err
		}
	}
	for _, sid := range ids {
		s.Policy.Release(sid)
	}
	s.Bootstrap.Forget(userID)
	return nil
}

// ExpireIdleSession: callback AuthPolicy saat timer inaktivitas habis.
func (s *AuthService) ExpireIdleSession(sessionID, userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.RevokeSession(ctx, sessionID); err != nil {
		log.Printf("[AUTH] ❌ gagal mencabut sesi idle %s: %v", sessionID, err)
	}
	s.Bootstrap.HandleEvent(ctx, AuthEvent{Kind: EventSignedOut, Identity: Identity{UserID: userID, SessionID: sessionID}})
}
