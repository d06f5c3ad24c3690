package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	authService "sekolahku_backend/internals/features/users/auth/service"
	helper "sekolahku_backend/internals/helpers"
)

type AuthController struct {
	Auth      *authService.AuthService
	Bootstrap *authService.Bootstrap
}

func NewAuthController(auth *authService.AuthService, boot *authService.Bootstrap) *AuthController {
	return &AuthController{Auth: auth, Bootstrap: boot}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var in loginRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}

	res, err := ac.Auth.Login(c.UserContext(), authService.LoginInput{
		Email:     in.Email,
		Password:  in.Password,
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		var locked *authService.LockedError
		var cred *authService.CredentialError
		switch {
		case errors.As(err, &locked):
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(locked.RetryAfter.Seconds())+1))
			return helper.JsonError(c, fiber.StatusTooManyRequests, locked.Error())
		case errors.As(err, &cred):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success":            false,
				"message":            cred.Error(),
				"error_code":         "UNAUTHORIZED",
				"remaining_attempts": cred.Remaining,
			})
		case errors.Is(err, authService.ErrAccountInactive):
			return helper.JsonError(c, fiber.StatusForbidden, err.Error())
		}
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}

	return helper.JsonOK(c, "Login berhasil", fiber.Map{
		"access_token": res.Token,
		"token_type":   "Bearer",
		"expires_at":   res.ExpiresAt,
		"user":         res.User,
	})
}

// POST /api/auth/logout (butuh sesi)
func (ac *AuthController) Logout(c *fiber.Ctx, u authService.CurrentUser) error {
	if err := ac.Auth.Logout(c.UserContext(), u); err != nil {
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}
	return helper.JsonOK(c, "Logout berhasil", nil)
}

/*
GET /api/auth/session

Selalu 200; dashboard membaca is_loading/user/backend_unreachable.
Token kosong → anonim.
*/
func (ac *AuthController) Session(c *fiber.Ctx) error {
	token := authService.BearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return helper.JsonOK(c, "ok", authService.SessionState{})
	}
	return helper.JsonOK(c, "ok", ac.Bootstrap.Check(c.UserContext(), token))
}
