package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/cashbook/controller"
	authMw "sekolahku_backend/internals/middlewares/auth"
)

// CashbookAdminRoutes: /api/a/cashbook (entri manual)
func CashbookAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewCashbookController(db)

	g := admin.Group("/cashbook")
	g.Get("/", ctl.List)
	g.Post("/", authMw.WithUser(ctl.Create))
	g.Delete("/:id", ctl.Delete)
}

// CashbookCashierRoutes: kasir hanya melihat.
func CashbookCashierRoutes(cashier fiber.Router, db *gorm.DB) {
	ctl := controller.NewCashbookController(db)
	cashier.Get("/cashbook", ctl.List)
}
