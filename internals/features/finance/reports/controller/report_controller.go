package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/finance/reports/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/dbtime"
)

type ReportController struct {
	Reports *service.ReportService
	now     func() time.Time
}

func NewReportController(reports *service.ReportService) *ReportController {
	return &ReportController{Reports: reports, now: time.Now}
}

// GET /reports/monthly?year=YYYY (default tahun berjalan, WIB)
func (ctl *ReportController) Monthly(c *fiber.Ctx) error {
	year := ctl.now().In(dbtime.SchoolLocation()).Year()
	if s := strings.TrimSpace(c.Query("year")); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 2000 || y > 2100 {
			return helper.JsonError(c, fiber.StatusBadRequest, "year tidak valid")
		}
		year = y
	}
	rep, err := ctl.Reports.Monthly(c.UserContext(), year)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat laporan bulanan")
	}
	return helper.JsonOK(c, "ok", rep)
}

// GET /reports/cashbook?from=YYYY-MM-DD&to=YYYY-MM-DD (default bulan berjalan)
func (ctl *ReportController) Cashbook(c *fiber.Ctx) error {
	today := dbtime.DateOf(ctl.now().In(dbtime.SchoolLocation()))
	from, to := dbtime.MonthStart(today), dbtime.MonthEnd(today)

	if s := strings.TrimSpace(c.Query("from")); s != "" {
		d, err := dbtime.ParseDate(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		from = d
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		d, err := dbtime.ParseDate(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		to = d
	}
	if to.Before(from) {
		return helper.JsonError(c, fiber.StatusBadRequest, "to harus >= from")
	}

	rep, err := ctl.Reports.Cashbook(c.UserContext(), from, to)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat laporan kas")
	}
	return helper.JsonOK(c, "ok", rep)
}
