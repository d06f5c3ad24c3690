package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/robfig/cron/v3"

	"sekolahku_backend/internals/configs"
	database "sekolahku_backend/internals/databases"
	billModel "sekolahku_backend/internals/features/finance/bills/model"
	billScheduler "sekolahku_backend/internals/features/finance/bills/scheduler"
	billStore "sekolahku_backend/internals/features/finance/bills/store"
	cashModel "sekolahku_backend/internals/features/finance/cashbook/model"
	paymentModel "sekolahku_backend/internals/features/finance/payments/model"
	paymentService "sekolahku_backend/internals/features/finance/payments/service"
	yearModel "sekolahku_backend/internals/features/school/academic_years/model"
	classModel "sekolahku_backend/internals/features/school/classes/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
	authModel "sekolahku_backend/internals/features/users/auth/model"
	authScheduler "sekolahku_backend/internals/features/users/auth/scheduler"
	authService "sekolahku_backend/internals/features/users/auth/service"
	userModel "sekolahku_backend/internals/features/users/user/model"
	"sekolahku_backend/internals/helpers/dbtime"
	middlewares "sekolahku_backend/internals/middlewares"
	"sekolahku_backend/internals/middlewares/logger"
	routes "sekolahku_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	// 🔌 DB connect + pool + warm-up
	db, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	database.TunePool(db)
	database.WarmUp(db)

	if configs.GetEnvBool("DB_AUTOMIGRATE", false) {
		if err := database.Migrate(db,
			&yearModel.AcademicYearModel{},
			&classModel.ClassModel{},
			&studentModel.StudentModel{},
			&billModel.BillModel{},
			&billModel.StudentBillModel{},
			&paymentModel.PaymentModel{},
			&paymentModel.PaymentGatewayEventModel{},
			&cashModel.CashbookEntryModel{},
			&userModel.UserModel{},
			&userModel.UserProfileModel{},
			&authModel.UserSessionModel{},
		); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	// 🔐 auth: policy (lockout + inactivity), token, bootstrap identitas
	policy := authService.NewAuthPolicy(configs.LoadAuthPolicyConfig())
	ttl := time.Duration(configs.GetEnvInt("JWT_TTL_HOURS", int(authService.DefaultTokenTTL/time.Hour))) * time.Hour
	tokens := authService.NewTokenIssuer(configs.JWTSecret, ttl)
	boot := authService.NewBootstrap(
		&authService.GormSessionSource{DB: db, Tokens: tokens},
		&authService.GormProfileSource{DB: db},
		policy,
	)
	auth := authService.NewAuthService(db, tokens, policy, boot)
	policy.OnSessionExpired(auth.ExpireIdleSession)

	// ✅ MIDTRANS (nil kalau server key kosong)
	midtrans := paymentService.NewMidtransGateway(configs.MidtransServerKey, configs.MidtransUseProd)
	if midtrans != nil {
		if m := configs.GetEnvInt("MIDTRANS_EXPIRY_MINUTES", 0); m > 0 {
			midtrans.Expiry = time.Duration(m) * time.Minute
		}
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            30 * time.Second,
		IdleTimeout:             90 * time.Second,
	})

	// ⚙️ middleware dasar + performa
	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.RequestID())
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
	app.Use(middlewares.GlobalRateLimiter())
	// selaras dengan statement_timeout di DB
	app.Use(middlewares.RequestTimeout(time.Duration(configs.GetEnvInt("REQUEST_TIMEOUT_SECONDS", 5)) * time.Second))

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:        db,
		Auth:      auth,
		Bootstrap: boot,
		Midtrans:  midtrans,
	})

	// ⏱ scheduler setelah DB siap
	jobs := cron.New(
		cron.WithLocation(dbtime.SchoolLocation()),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := billScheduler.RegisterOverdueJob(jobs, configs.GetEnv("OVERDUE_CRON"), billStore.NewGormStore(db)); err != nil {
		log.Fatalf("[OVERDUE] add cron gagal: %v", err)
	}
	retention := time.Duration(configs.GetEnvInt("SESSION_RETENTION_DAYS", 7)) * 24 * time.Hour
	if _, err := authScheduler.RegisterSessionCleanup(jobs, configs.GetEnv("SESSION_CLEANUP_CRON"), db, retention); err != nil {
		log.Fatalf("[CLEANUP] add cron gagal: %v", err)
	}
	jobs.Start()

	port := configs.GetEnv("PORT", "3000")

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: HTTP → cron → timer sesi → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	<-jobs.Stop().Done()
	policy.Close()
	database.Close(db)
}
