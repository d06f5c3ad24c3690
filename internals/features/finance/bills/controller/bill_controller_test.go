package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/finance/bills/model"
	"sekolahku_backend/internals/features/finance/bills/store"
	classModel "sekolahku_backend/internals/features/school/classes/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
)

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"error_code"`
	Data      json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) (*fiber.App, *store.MemoryStore, model.BillModel, classModel.ClassModel) {
	t.Helper()
	s := store.NewMemoryStore()
	bill := s.PutBill(model.BillModel{BillCode: "SPP", BillName: "SPP", BillAmount: decimal.NewFromInt(150000)})
	class := s.PutClass(classModel.ClassModel{ClassName: "7A", ClassLevel: 7})
	cid := class.ClassID
	for i := 0; i < 2; i++ {
		s.PutStudent(studentModel.StudentModel{StudentName: "Siswa", StudentClassID: &cid})
	}

	ctl := NewBillController(nil, s)
	app := fiber.New()
	app.Post("/bills/:id/assign", ctl.Assign)
	app.Get("/bills/:id/monthly", ctl.GetMonthly)
	app.Put("/bills/:id/monthly", ctl.SaveMonthly)
	return app, s, bill, class
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestAssignEndpoint(t *testing.T) {
	app, s, bill, class := newTestApp(t)
	path := "/bills/" + bill.BillID.String() + "/assign"

	body := `{"target":"class","class_id":"` + class.ClassID.String() + `","repeat_monthly":true,"start_date":"2024-01-15","months_count":3}`
	status, env := do(t, app, http.MethodPost, path, body)
	require.Equal(t, http.StatusOK, status, env.Message)

	var res struct {
		Outcome  string   `json:"outcome"`
		Months   []string `json:"months"`
		Affected int      `json:"affected"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "applied", res.Outcome)
	assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"}, res.Months)
	assert.Equal(t, 6, res.Affected)
	assert.Len(t, s.StudentBills(), 6)

	// rerun → nothing to do
	status, env = do(t, app, http.MethodPost, path, body)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "nothing_to_do", res.Outcome)
	assert.Zero(t, res.Affected)
}

func TestAssignEndpoint_Rejections(t *testing.T) {
	app, _, bill, _ := newTestApp(t)
	path := "/bills/" + bill.BillID.String() + "/assign"

	status, env := do(t, app, http.MethodPost, path, `{"target":"class","start_date":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BAD_REQUEST", env.ErrorCode)

	status, _ = do(t, app, http.MethodPost, path, `{"target":"semua","start_date":"2024-01-01"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = do(t, app, http.MethodPost, path, `{"target":"all","start_date":"januari"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/bills/"+uuid.NewString()+"/assign", `{"target":"all","start_date":"2024-01-01"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodPost, "/bills/bukan-uuid/assign", `{"target":"all","start_date":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMonthlyEndpoints(t *testing.T) {
	app, s, bill, _ := newTestApp(t)
	ids, err := s.ListStudentIDs(context.Background(), store.StudentFilter{})
	require.NoError(t, err)
	month := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		s.PutStudentBill(model.StudentBillModel{
			StudentBillStudentID: id,
			StudentBillBillID:    bill.BillID,
			StudentBillAmount:    decimal.NewFromInt(int64(100 + i*50)),
			StudentBillDueDate:   month,
		})
	}
	path := "/bills/" + bill.BillID.String() + "/monthly"

	status, env := do(t, app, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)
	var view struct {
		Source string `json:"source"`
		Months []struct {
			Month  string          `json:"month"`
			Amount decimal.Decimal `json:"amount"`
			Rows   int             `json:"rows"`
		} `json:"months"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "existing_rows", view.Source)
	require.Len(t, view.Months, 1)
	assert.Equal(t, "2024-05", view.Months[0].Month)
	assert.True(t, view.Months[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, view.Months[0].Rows)

	status, env = do(t, app, http.MethodPut, path, `{"months":[{"due_date":"2024-05","amount":"175000"}]}`)
	require.Equal(t, http.StatusOK, status, env.Message)
	for _, sb := range s.StudentBills() {
		assert.True(t, sb.StudentBillAmount.Equal(decimal.NewFromInt(175000)))
	}

	status, _ = do(t, app, http.MethodPut, path, `{"months":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}
