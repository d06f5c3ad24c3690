// file: internals/route/details/user_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	AuthRoute "sekolahku_backend/internals/features/users/auth/route"
	authService "sekolahku_backend/internals/features/users/auth/service"
	UserProfileRoute "sekolahku_backend/internals/features/users/user_profiles/route"
)

func AuthRoutes(app *fiber.App, auth *authService.AuthService, boot *authService.Bootstrap) {
	AuthRoute.AuthRoutes(app, auth, boot)
}

func UserAdminRoutes(admin fiber.Router, db *gorm.DB, auth *authService.AuthService) {
	UserProfileRoute.UserProfileRoutes(admin, db, auth)
}
