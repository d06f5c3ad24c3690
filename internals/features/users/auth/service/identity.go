package service

import (
	"strings"

	"github.com/google/uuid"

	"sekolahku_backend/internals/constants"
)

// Identity: data mentah dari sesi login (belum dicocokkan ke user_profiles).
type Identity struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Email     string
	Name      string
}

// Profile: baris user_profiles yang relevan untuk bootstrap.
type Profile struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Email    string
	Name     string
	Role     string
	IsActive bool
}

// CurrentUser: identitas yang dipakai route guard & handler.
type CurrentUser struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Fallback  bool      `json:"fallback"`
	SessionID uuid.UUID `json:"-"`
}

func (u CurrentUser) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// alamat administratif bawaan untuk identitas fallback
var fallbackRoles = map[string]string{
	"admin@sekolah.sch.id": constants.RoleSuperAdmin,
	"kasir@sekolah.sch.id": constants.RoleCashier,
}

// FallbackUser: dipakai kalau profil tidak bisa dibaca / tidak aktif.
func FallbackUser(id Identity) CurrentUser {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	role, ok := fallbackRoles[email]
	if !ok {
		role = constants.RoleCashier
	}
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = email
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
	}
	return CurrentUser{
		ID:        id.UserID,
		UserID:    id.UserID,
		Email:     email,
		Name:      name,
		Role:      role,
		Fallback:  true,
		SessionID: id.SessionID,
	}
}

func userFromProfile(p Profile, id Identity) CurrentUser {
	return CurrentUser{
		ID:        p.ID,
		UserID:    id.UserID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      p.Role,
		SessionID: id.SessionID,
	}
}
