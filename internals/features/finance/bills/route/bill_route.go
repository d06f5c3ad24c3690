package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/bills/controller"
	"sekolahku_backend/internals/features/finance/bills/store"
)

// BillAdminRoutes: /api/a/bills & /api/a/student-bills
func BillAdminRoutes(admin fiber.Router, db *gorm.DB) {
	bills := controller.NewBillController(db, store.NewGormStore(db))
	sb := controller.NewStudentBillController(db)

	g := admin.Group("/bills")
	g.Get("/", bills.List)
	g.Get("/:id", bills.Get)
	g.Post("/", bills.Create)
	g.Patch("/:id", bills.Update)
	g.Delete("/:id", bills.Delete)

	g.Post("/:id/assign", bills.Assign)
	g.Get("/:id/monthly", bills.GetMonthly)
	g.Put("/:id/monthly", bills.SaveMonthly)

	admin.Get("/student-bills", sb.List)
	admin.Post("/student-bills/:id/cancel", sb.Cancel)
}

// BillCashierRoutes: kasir lihat template & tagihan siswa.
func BillCashierRoutes(cashier fiber.Router, db *gorm.DB) {
	bills := controller.NewBillController(db, store.NewGormStore(db))
	sb := controller.NewStudentBillController(db)

	cashier.Get("/bills", bills.List)
	cashier.Get("/bills/:id", bills.Get)
	cashier.Get("/student-bills", sb.List)
}
