package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/constants"
	authService "sekolahku_backend/internals/features/users/auth/service"
)

type checkerFunc func(ctx context.Context, token string) authService.SessionState

func (f checkerFunc) Check(ctx context.Context, token string) authService.SessionState {
	return f(ctx, token)
}

func newGuardedApp(state authService.SessionState, roles []string) *fiber.App {
	app := fiber.New()
	boot := checkerFunc(func(context.Context, string) authService.SessionState { return state })
	g := app.Group("/api/a", AuthMiddleware(boot), OnlyRolesSlice(constants.RoleErrorAdmin("tagihan"), roles))
	g.Get("/me", WithUser(func(c *fiber.Ctx, u authService.CurrentUser) error {
		return c.SendString(u.Role)
	}))
	return app
}

func call(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/a/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	admin := &authService.CurrentUser{ID: uuid.New(), Role: constants.RoleAdmin}
	cashier := &authService.CurrentUser{ID: uuid.New(), Role: constants.RoleCashier}

	tests := []struct {
		name   string
		token  string
		state  authService.SessionState
		status int
	}{
		{name: "missing token", status: http.StatusUnauthorized},
		{name: "anonymous", token: "x", state: authService.SessionState{}, status: http.StatusUnauthorized},
		{name: "backend down", token: "x", state: authService.SessionState{BackendUnreachable: true}, status: http.StatusServiceUnavailable},
		{name: "wrong role", token: "x", state: authService.SessionState{User: cashier}, status: http.StatusForbidden},
		{name: "allowed", token: "x", state: authService.SessionState{User: admin}, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, newGuardedApp(tt.state, constants.AdminAndAbove), tt.token)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
