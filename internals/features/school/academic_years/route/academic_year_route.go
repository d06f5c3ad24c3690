package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/academic_years/controller"
)

// AcademicYearAdminRoutes: /api/a/academic-years
func AcademicYearAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewAcademicYearController(db)

	grp := admin.Group("/academic-years")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.Get)
	grp.Post("/", ctl.Create)
	grp.Patch("/:id", ctl.Update)
	grp.Post("/:id/activate", ctl.Activate)
	grp.Delete("/:id", ctl.Delete)
}

// AcademicYearReadRoutes: read-only untuk staf (kasir/guru).
func AcademicYearReadRoutes(staff fiber.Router, db *gorm.DB) {
	ctl := controller.NewAcademicYearController(db)

	grp := staff.Group("/academic-years")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.Get)
}
