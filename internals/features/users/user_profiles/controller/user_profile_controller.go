package controller

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	authService "sekolahku_backend/internals/features/users/auth/service"
	userModel "sekolahku_backend/internals/features/users/user/model"
	"sekolahku_backend/internals/features/users/user_profiles/dto"
	helper "sekolahku_backend/internals/helpers"
)

// SessionRevoker: *authService.AuthService.
type SessionRevoker interface {
	RevokeUserSessions(ctx context.Context, userID uuid.UUID) error
}

type UserProfileController struct {
	DB       *gorm.DB
	Sessions SessionRevoker
}

func NewUserProfileController(db *gorm.DB, sessions SessionRevoker) *UserProfileController {
	return &UserProfileController{DB: db, Sessions: sessions}
}

// GET /users?role=&active=&q=
func (ctl *UserProfileController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)
	q := ctl.DB.WithContext(c.UserContext()).Model(&userModel.UserProfileModel{})

	if role := strings.TrimSpace(c.Query("role")); role != "" {
		if !constants.IsValidRole(role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "role tidak valid")
		}
		q = q.Where("user_profile_role = ?", role)
	}
	if a := strings.TrimSpace(c.Query("active")); a != "" {
		q = q.Where("user_profile_is_active = ?", c.QueryBool("active"))
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("(user_profile_name ILIKE ? OR user_profile_email ILIKE ?)", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung pengguna")
	}
	var rows []userModel.UserProfileModel
	if err := q.Order("user_profile_name ASC").Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pengguna")
	}
	out := make([]dto.UserProfileResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(total, p, len(out)))
}

// POST /users — buat kredensial + profil dalam satu transaksi.
func (ctl *UserProfileController) Create(c *fiber.Ctx, actor authService.CurrentUser) error {
	var in dto.CreateUserRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}
	hash, err := authService.HashPassword(in.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	user := userModel.UserModel{
		UserEmail:        in.Email,
		UserPasswordHash: hash,
		UserName:         strings.TrimSpace(in.Name),
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	var profile userModel.UserProfileModel

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile = userModel.UserProfileModel{
			UserProfileUserID: user.UserID,
			UserProfileEmail:  user.UserEmail,
			UserProfileName:   user.UserName,
			UserProfileRole:   in.Role,
			UserProfileActive: active,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		status, msg := helper.MapPGError(err)
		if status == fiber.StatusConflict {
			msg = "Email sudah terdaftar"
		}
		return helper.JsonError(c, status, msg)
	}
	log.Printf("[INFO] %s membuat pengguna %s (%s)", actor.Email, profile.UserProfileEmail, profile.UserProfileRole)
	return helper.JsonCreated(c, "Pengguna dibuat", dto.FromModel(profile))
}

// PATCH /users/:id (id = user_profile_id)
func (ctl *UserProfileController) Update(c *fiber.Ctx, actor authService.CurrentUser) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var in dto.UpdateUserRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}

	var p userModel.UserProfileModel
	if err := ctl.DB.WithContext(c.UserContext()).First(&p, "user_profile_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Pengguna tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if p.UserProfileUserID == actor.UserID && in.IsActive != nil && !*in.IsActive {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak bisa menonaktifkan akun sendiri")
	}
	revoke := in.SessionAffecting(p)

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"user_profile_updated_at": time.Now()}
		if in.Name != nil {
			updates["user_profile_name"] = strings.TrimSpace(*in.Name)
		}
		if in.Role != nil {
			updates["user_profile_role"] = *in.Role
		}
		if in.IsActive != nil {
			updates["user_profile_is_active"] = *in.IsActive
		}
		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return err
		}
		if in.Password != nil {
			hash, err := authService.HashPassword(*in.Password)
			if err != nil {
				return err
			}
			return tx.Model(&userModel.UserModel{}).
				Where("user_id = ?", p.UserProfileUserID).
				Updates(map[string]any{"user_password_hash": hash, "user_updated_at": time.Now()}).Error
		}
		return nil
	})
	if err != nil {
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}

	if revoke && ctl.Sessions != nil {
		if err := ctl.Sessions.RevokeUserSessions(c.UserContext(), p.UserProfileUserID); err != nil {
			log.Printf("[WARN] gagal mencabut sesi %s: %v", p.UserProfileUserID, err)
		}
	}
	if err := ctl.DB.WithContext(c.UserContext()).First(&p, "user_profile_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Pengguna diperbarui", dto.FromModel(p))
}
