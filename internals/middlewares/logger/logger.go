package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"sekolahku_backend/internals/helpers/dbtime"
)

// LoggerMiddleware: access log per request (jam WIB), health check tidak dicatat.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   dbtime.DefaultTimezone,
		Format:     "[REQ] ${time} ${locals:requestid} ${ip} ${method} ${path} -> ${status} (${latency})\n",
	})
}
