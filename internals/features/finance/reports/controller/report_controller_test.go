package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/finance/reports/service"
)

type rangeSource struct {
	from, to time.Time
}

func (r *rangeSource) BillTotalsByMonth(_ context.Context, from, to time.Time) ([]service.MonthAggregate, error) {
	r.from, r.to = from, to
	return nil, nil
}

func (r *rangeSource) CashTotals(_ context.Context, from, to time.Time) ([]service.CashAggregate, error) {
	r.from, r.to = from, to
	return nil, nil
}

func newApp(src *rangeSource) *fiber.App {
	ctl := NewReportController(service.NewReportService(src))
	ctl.now = func() time.Time { return time.Date(2024, time.October, 31, 20, 0, 0, 0, time.UTC) }
	app := fiber.New()
	app.Get("/reports/monthly", ctl.Monthly)
	app.Get("/reports/cashbook", ctl.Cashbook)
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestCashbookDefaultsToCurrentSchoolMonth(t *testing.T) {
	src := &rangeSource{}
	status, _ := get(t, newApp(src), "/reports/cashbook")
	require.Equal(t, http.StatusOK, status)
	// 20:00 UTC 31 Okt = 03:00 WIB 1 Nov
	assert.Equal(t, time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC), src.from)
	assert.Equal(t, time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC), src.to)
}

func TestReportQueryValidation(t *testing.T) {
	app := newApp(&rangeSource{})
	for _, path := range []string{
		"/reports/monthly?year=abc",
		"/reports/monthly?year=1999",
		"/reports/cashbook?from=2024-05-10&to=2024-05-01",
		"/reports/cashbook?from=10-05-2024",
	} {
		status, body := get(t, app, path)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, false, body["success"], path)
	}
}

func TestMonthlyReportYear(t *testing.T) {
	src := &rangeSource{}
	status, body := get(t, newApp(src), "/reports/monthly?year=2023")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2023, src.from.Year())
	data := body["data"].(map[string]any)
	assert.Len(t, data["months"], 12)
}
