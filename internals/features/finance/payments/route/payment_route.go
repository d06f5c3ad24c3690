package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/controller"
	"sekolahku_backend/internals/features/finance/payments/service"
	"sekolahku_backend/internals/features/finance/payments/store"
	rateLimiter "sekolahku_backend/internals/middlewares"
	authMw "sekolahku_backend/internals/middlewares/auth"
)

func newController(db *gorm.DB, gw *service.MidtransGateway) *controller.PaymentController {
	return controller.NewPaymentController(db, service.NewPaymentService(store.NewGormStore(db), gw))
}

// PaymentCashierRoutes: /api/c/payments & checkout Midtrans.
func PaymentCashierRoutes(cashier fiber.Router, db *gorm.DB, gw *service.MidtransGateway) {
	ctl := newController(db, gw)

	cashier.Get("/payments", ctl.List)
	cashier.Post("/payments", authMw.WithUser(ctl.Create))
	cashier.Post("/student-bills/:id/checkout", ctl.Checkout)
}

// PaymentPublicRoutes: webhook Midtrans, tanpa auth (diverifikasi lewat signature).
func PaymentPublicRoutes(app fiber.Router, db *gorm.DB, gw *service.MidtransGateway) {
	ctl := newController(db, gw)

	app.Post("/api/payments/notification", rateLimiter.WebhookRateLimiter(), ctl.Notification)
}
