package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/classes/controller"
)

func ClassAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewClassController(db)

	g := admin.Group("/classes")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}

func ClassReadRoutes(staff fiber.Router, db *gorm.DB) {
	ctl := controller.NewClassController(db)

	g := staff.Group("/classes")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
}
