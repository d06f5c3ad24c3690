// file: internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	BillRoute "sekolahku_backend/internals/features/finance/bills/route"
	CashbookRoute "sekolahku_backend/internals/features/finance/cashbook/route"
	PaymentRoute "sekolahku_backend/internals/features/finance/payments/route"
	paymentService "sekolahku_backend/internals/features/finance/payments/service"
	ReportRoute "sekolahku_backend/internals/features/finance/reports/route"
)

// FinancePublicRoutes: webhook gateway (tanpa login).
func FinancePublicRoutes(app fiber.Router, db *gorm.DB, gw *paymentService.MidtransGateway) {
	PaymentRoute.PaymentPublicRoutes(app, db, gw)
}

func FinanceAdminRoutes(admin fiber.Router, db *gorm.DB) {
	BillRoute.BillAdminRoutes(admin, db)
	CashbookRoute.CashbookAdminRoutes(admin, db)
}

func FinanceCashierRoutes(cashier fiber.Router, db *gorm.DB, gw *paymentService.MidtransGateway) {
	BillRoute.BillCashierRoutes(cashier, db)
	PaymentRoute.PaymentCashierRoutes(cashier, db, gw)
	CashbookRoute.CashbookCashierRoutes(cashier, db)
	ReportRoute.ReportRoutes(cashier, db)
}
