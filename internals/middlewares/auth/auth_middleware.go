package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	authService "sekolahku_backend/internals/features/users/auth/service"
	helper "sekolahku_backend/internals/helpers"
)

const LocalsCurrentUser = "current_user"

// SessionChecker: *authService.Bootstrap.
type SessionChecker interface {
	Check(ctx context.Context, token string) authService.SessionState
}

// AuthMiddleware: wajib sesi valid. Backend mati → 503 supaya dashboard masuk mode offline.
func AuthMiddleware(boot SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := authService.BearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - token tidak ada")
		}

		state := boot.Check(c.UserContext(), token)
		if state.BackendUnreachable {
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "Server data tidak dapat dihubungi")
		}
		if state.User == nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Sesi tidak valid atau sudah berakhir")
		}

		c.Locals(LocalsCurrentUser, *state.User)
		return c.Next()
	}
}

// CurrentUser dari locals yang diisi AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (authService.CurrentUser, bool) {
	u, ok := c.Locals(LocalsCurrentUser).(authService.CurrentUser)
	return u, ok
}

// WithUser: handler menerima user sebagai argumen eksplisit.
func WithUser(h func(c *fiber.Ctx, u authService.CurrentUser) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := CurrentUser(c)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		return h(c, u)
	}
}
