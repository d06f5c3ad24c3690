// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	paymentService "sekolahku_backend/internals/features/finance/payments/service"
	authService "sekolahku_backend/internals/features/users/auth/service"
	authMw "sekolahku_backend/internals/middlewares/auth"
	routeDetails "sekolahku_backend/internals/route/details"
)

var startTime time.Time

type Deps struct {
	DB        *gorm.DB
	Auth      *authService.AuthService
	Bootstrap *authService.Bootstrap
	Midtrans  *paymentService.MidtransGateway // nil = checkout online mati
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, d.Auth, d.Bootstrap)

	// ===================== PUBLIC (webhook) =====================
	routeDetails.FinancePublicRoutes(app, d.DB, d.Midtrans)

	// group /api/a di bawah didaftarkan SETELAH /api/auth & webhook supaya
	// middleware role-nya tidak ikut jalan untuk route publik tsb.
	session := authMw.AuthMiddleware(d.Bootstrap)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		session,
		authMw.OnlyRolesSlice(constants.RoleErrorAdmin("manajemen keuangan"), constants.AdminAndAbove),
	)

	// ===================== CASHIER =====================
	log.Println("[INFO] Setting up CASHIER group (Auth + RoleCheck)...")
	cashier := app.Group("/api/c",
		session,
		authMw.OnlyRolesSlice(constants.RoleErrorCashier("pembayaran"), constants.CashierAndAbove),
	)

	// ===================== STAFF (read-only) =====================
	log.Println("[INFO] Setting up STAFF group (Auth)...")
	staff := app.Group("/api/t",
		session,
		authMw.OnlyRolesSlice(constants.RoleErrorStaff("data sekolah"), constants.AllRoles),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting School routes...")
	routeDetails.SchoolAdminRoutes(admin, d.DB)
	routeDetails.SchoolReadRoutes(staff, d.DB)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinanceAdminRoutes(admin, d.DB)
	routeDetails.FinanceCashierRoutes(cashier, d.DB, d.Midtrans)

	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserAdminRoutes(admin, d.DB, d.Auth)
}
