package handler

import (
	"time"

	"taxfill/internal/declaration/models"
)

// IncomeResponse is one income line item in a declaration response.
type IncomeResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

// DeductionResponse is one deduction line item in a declaration response.
type DeductionResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

// DeclarationResponse is the HTTP representation of a declaration with its
// line items and derived figures.
type DeclarationResponse struct {
	ID              string              `json:"id"`
	Year            int                 `json:"year"`
	Description     string              `json:"description,omitempty"`
	Status          string              `json:"status"`
	TaxDue          float64             `json:"tax_due"`
	TaxRefund       float64             `json:"tax_refund"`
	TotalIncome     float64             `json:"total_income"`
	TotalDeductions float64             `json:"total_deductions"`
	Incomes         []IncomeResponse    `json:"incomes"`
	Deductions      []DeductionResponse `json:"deductions"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// FromDeclaration converts a domain declaration to its HTTP representation.
func FromDeclaration(d *models.Declaration) *DeclarationResponse {
	incomes := make([]IncomeResponse, 0, d.Incomes.Len())
	for _, income := range d.Incomes.Items() {
		incomes = append(incomes, IncomeResponse{
			ID:          income.ID.String(),
			Type:        string(income.Type),
			Description: income.Description,
			Amount:      income.Amount,
		})
	}
	deductions := make([]DeductionResponse, 0, d.Deductions.Len())
	for _, deduction := range d.Deductions.Items() {
		deductions = append(deductions, DeductionResponse{
			ID:          deduction.ID.String(),
			Type:        string(deduction.Type),
			Description: deduction.Description,
			Amount:      deduction.Amount,
		})
	}
	return &DeclarationResponse{
		ID:              d.ID.String(),
		Year:            d.Year,
		Description:     d.Description,
		Status:          string(d.Status),
		TaxDue:          d.TaxDue,
		TaxRefund:       d.TaxRefund,
		TotalIncome:     d.TotalIncome(),
		TotalDeductions: d.TotalDeductions(),
		Incomes:         incomes,
		Deductions:      deductions,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// FromDeclarations converts a list of declarations.
func FromDeclarations(declarations []*models.Declaration) []*DeclarationResponse {
	responses := make([]*DeclarationResponse, 0, len(declarations))
	for _, d := range declarations {
		responses = append(responses, FromDeclaration(d))
	}
	return responses
}
