package route

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/users/auth/controller"
	authService "sekolahku_backend/internals/features/users/auth/service"
	rateLimiter "sekolahku_backend/internals/middlewares"
	authMw "sekolahku_backend/internals/middlewares/auth"
)

// AuthRoutes: /api/auth
func AuthRoutes(app *fiber.App, auth *authService.AuthService, boot *authService.Bootstrap) {
	ctl := controller.NewAuthController(auth, boot)

	g := app.Group("/api/auth")
	g.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	g.Get("/session", ctl.Session)
	g.Post("/logout", authMw.AuthMiddleware(boot), authMw.WithUser(ctl.Logout))
}
