package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/students/controller"
)

func StudentAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentController(db)

	g := admin.Group("/students")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}

// read-only: kasir perlu cari siswa saat menerima pembayaran, guru untuk lihat kelasnya.
func StudentReadRoutes(staff fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentController(db)

	g := staff.Group("/students")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
}
