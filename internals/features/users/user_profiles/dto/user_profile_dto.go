package dto

import (
	"time"

	"github.com/google/uuid"

	userModel "sekolahku_backend/internals/features/users/user/model"
)

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=120"`
	Role     string `json:"role" validate:"required,oneof=super_admin admin cashier teacher"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=super_admin admin cashier teacher"`
	IsActive *bool   `json:"is_active,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// SessionAffecting: perubahan yang membuat sesi lama harus dicabut.
func (r UpdateUserRequest) SessionAffecting(p userModel.UserProfileModel) bool {
	return (r.Role != nil && *r.Role != p.UserProfileRole) ||
		(r.IsActive != nil && *r.IsActive != p.UserProfileActive) ||
		r.Password != nil
}

type UserProfileResponse struct {
	ID        uuid.UUID `json:"user_profile_id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(p userModel.UserProfileModel) UserProfileResponse {
	return UserProfileResponse{
		ID:        p.UserProfileID,
		UserID:    p.UserProfileUserID,
		Email:     p.UserProfileEmail,
		Name:      p.UserProfileName,
		Role:      p.UserProfileRole,
		IsActive:  p.UserProfileActive,
		CreatedAt: p.UserProfileCreatedAt,
		UpdatedAt: p.UserProfileUpdatedAt,
	}
}
