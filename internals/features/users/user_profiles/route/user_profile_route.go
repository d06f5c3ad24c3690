package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	"sekolahku_backend/internals/features/users/user_profiles/controller"
	authMw "sekolahku_backend/internals/middlewares/auth"
)

// UserProfileRoutes: /api/a/users, khusus super admin.
func UserProfileRoutes(admin fiber.Router, db *gorm.DB, sessions controller.SessionRevoker) {
	ctl := controller.NewUserProfileController(db, sessions)

	g := admin.Group("/users", authMw.OnlyRolesSlice(constants.RoleErrorSuperAdmin("pengguna"), constants.SuperAdminOnly))
	g.Get("/", ctl.List)
	g.Post("/", authMw.WithUser(ctl.Create))
	g.Patch("/:id", authMw.WithUser(ctl.Update))
}
