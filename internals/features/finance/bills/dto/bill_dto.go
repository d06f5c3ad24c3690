package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/bills/model"
)

/* =========================
   Registry (template tagihan)
   ========================= */

type BillCreateRequest struct {
	Code           string          `json:"bill_code" validate:"required,max=40"`
	Name           string          `json:"bill_name" validate:"required,max=160"`
	Amount         decimal.Decimal `json:"bill_amount"`
	Category       string          `json:"bill_category" validate:"max=80"`
	Status         string          `json:"bill_status" validate:"omitempty,oneof=active inactive"`
	AcademicYearID *uuid.UUID      `json:"bill_academic_year_id,omitempty"`
}

func (r BillCreateRequest) ToModel() model.BillModel {
	m := model.BillModel{
		BillCode:           r.Code,
		BillName:           r.Name,
		BillAmount:         r.Amount,
		BillCategory:       r.Category,
		BillStatus:         model.BillStatus(r.Status),
		BillAcademicYearID: r.AcademicYearID,
	}
	m.Normalize()
	return m
}

type BillUpdateRequest struct {
	Code           *string          `json:"bill_code,omitempty" validate:"omitempty,max=40"`
	Name           *string          `json:"bill_name,omitempty" validate:"omitempty,max=160"`
	Amount         *decimal.Decimal `json:"bill_amount,omitempty"`
	Category       *string          `json:"bill_category,omitempty" validate:"omitempty,max=80"`
	Status         *string          `json:"bill_status,omitempty" validate:"omitempty,oneof=active inactive"`
	AcademicYearID *uuid.UUID       `json:"bill_academic_year_id,omitempty"`
}

func (r BillUpdateRequest) Apply(m *model.BillModel) {
	if r.Code != nil {
		m.BillCode = *r.Code
	}
	if r.Name != nil {
		m.BillName = *r.Name
	}
	if r.Amount != nil {
		m.BillAmount = *r.Amount
	}
	if r.Category != nil {
		m.BillCategory = *r.Category
	}
	if r.Status != nil {
		m.BillStatus = model.BillStatus(*r.Status)
	}
	if r.AcademicYearID != nil {
		m.BillAcademicYearID = r.AcademicYearID
	}
}

type BillResponse struct {
	ID             uuid.UUID       `json:"bill_id"`
	Code           string          `json:"bill_code"`
	Name           string          `json:"bill_name"`
	Amount         decimal.Decimal `json:"bill_amount"`
	Category       string          `json:"bill_category"`
	Status         string          `json:"bill_status"`
	AcademicYearID *uuid.UUID      `json:"bill_academic_year_id,omitempty"`
	CreatedAt      time.Time       `json:"bill_created_at"`
	UpdatedAt      time.Time       `json:"bill_updated_at"`
}

func FromBill(m model.BillModel) BillResponse {
	return BillResponse{
		ID:             m.BillID,
		Code:           m.BillCode,
		Name:           m.BillName,
		Amount:         m.BillAmount,
		Category:       m.BillCategory,
		Status:         string(m.BillStatus),
		AcademicYearID: m.BillAcademicYearID,
		CreatedAt:      m.BillCreatedAt,
		UpdatedAt:      m.BillUpdatedAt,
	}
}

func FromBills(list []model.BillModel) []BillResponse {
	out := make([]BillResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromBill(m))
	}
	return out
}

// NormalizeCode dipakai filter ?code=
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
