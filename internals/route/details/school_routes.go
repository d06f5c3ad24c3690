// file: internals/route/details/school_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	AcademicYearRoute "sekolahku_backend/internals/features/school/academic_years/route"
	ClassRoute "sekolahku_backend/internals/features/school/classes/route"
	StudentRoute "sekolahku_backend/internals/features/school/students/route"
)

func SchoolAdminRoutes(admin fiber.Router, db *gorm.DB) {
	AcademicYearRoute.AcademicYearAdminRoutes(admin, db)
	ClassRoute.ClassAdminRoutes(admin, db)
	StudentRoute.StudentAdminRoutes(admin, db)
}

// SchoolReadRoutes: semua staf (termasuk guru) boleh membaca data akademik.
func SchoolReadRoutes(staff fiber.Router, db *gorm.DB) {
	AcademicYearRoute.AcademicYearReadRoutes(staff, db)
	ClassRoute.ClassReadRoutes(staff, db)
	StudentRoute.StudentReadRoutes(staff, db)
}
