package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/reports/controller"
	"sekolahku_backend/internals/features/finance/reports/service"
)

// ReportRoutes: /api/c/reports
func ReportRoutes(cashier fiber.Router, db *gorm.DB) {
	ctl := controller.NewReportController(service.NewReportService(service.GormSource{DB: db}))

	g := cashier.Group("/reports")
	g.Get("/monthly", ctl.Monthly)
	g.Get("/cashbook", ctl.Cashbook)
}
