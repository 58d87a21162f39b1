package handler

import (
	"strings"

	"taxfill/internal/declaration/models"
	"taxfill/internal/declaration/service"
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
)

// IncomeRequest is one income line item in a declaration body. An omitted id
// means a fresh line item.
type IncomeRequest struct {
	ID          string  `json:"id,omitempty"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

func (r *IncomeRequest) toInput() (service.IncomeInput, error) {
	input := service.IncomeInput{
		Type:        models.IncomeType(strings.ToUpper(strings.TrimSpace(r.Type))),
		Description: strings.TrimSpace(r.Description),
		Amount:      r.Amount,
	}
	if !input.Type.Valid() {
		return input, dErrors.Newf(dErrors.CodeBadRequest, "invalid income type %q", r.Type)
	}
	if r.Amount < 0 {
		return input, dErrors.New(dErrors.CodeBadRequest, "income amount cannot be negative")
	}
	if r.ID != "" {
		incomeID, err := id.ParseIncomeID(r.ID)
		if err != nil {
			return input, dErrors.New(dErrors.CodeBadRequest, "invalid income id")
		}
		input.ID = &incomeID
	}
	return input, nil
}

// DeductionRequest is one deduction line item in a declaration body. On
// update, an id matching a stored deduction edits it in place.
type DeductionRequest struct {
	ID          string  `json:"id,omitempty"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

func (r *DeductionRequest) toInput() (service.DeductionInput, error) {
	input := service.DeductionInput{
		Type:        models.DeductionType(strings.ToUpper(strings.TrimSpace(r.Type))),
		Description: strings.TrimSpace(r.Description),
		Amount:      r.Amount,
	}
	if !input.Type.Valid() {
		return input, dErrors.Newf(dErrors.CodeBadRequest, "invalid deduction type %q", r.Type)
	}
	if r.Amount < 0 {
		return input, dErrors.New(dErrors.CodeBadRequest, "deduction amount cannot be negative")
	}
	if r.ID != "" {
		deductionID, err := id.ParseDeductionID(r.ID)
		if err != nil {
			return input, dErrors.New(dErrors.CodeBadRequest, "invalid deduction id")
		}
		input.ID = &deductionID
	}
	return input, nil
}

// CreateDeclarationRequest is the HTTP request body for POST /declarations.
type CreateDeclarationRequest struct {
	Year        int                `json:"year"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status"`
	TaxDue      float64            `json:"tax_due,omitempty"`
	TaxRefund   float64            `json:"tax_refund,omitempty"`
	Incomes     []IncomeRequest    `json:"incomes"`
	Deductions  []DeductionRequest `json:"deductions"`

	parsed service.CreateInput
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateDeclarationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Year == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "year is required")
	}
	status, err := parseStatus(r.Status)
	if err != nil {
		return err
	}
	if r.TaxDue < 0 || r.TaxRefund < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "tax figures cannot be negative")
	}

	r.parsed = service.CreateInput{
		Year:        r.Year,
		Description: strings.TrimSpace(r.Description),
		Status:      status,
		TaxDue:      r.TaxDue,
		TaxRefund:   r.TaxRefund,
	}
	r.parsed.Incomes, r.parsed.Deductions, err = parseLineItems(r.Incomes, r.Deductions)
	return err
}

// Input returns the validated service input.
func (r *CreateDeclarationRequest) Input() service.CreateInput {
	return r.parsed
}

// UpdateDeclarationRequest is the HTTP request body for PUT
// /declarations/{declarationID}. The line-item slices describe the desired end
// state; an omitted description keeps the stored one. The year moves with the
// request for drafts and must match the stored one for submitted declarations.
type UpdateDeclarationRequest struct {
	Year        int                `json:"year"`
	Description *string            `json:"description,omitempty"`
	Status      string             `json:"status"`
	Incomes     []IncomeRequest    `json:"incomes"`
	Deductions  []DeductionRequest `json:"deductions"`

	parsed service.UpdateInput
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *UpdateDeclarationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Year == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "year is required")
	}
	status, err := parseStatus(r.Status)
	if err != nil {
		return err
	}

	r.parsed = service.UpdateInput{
		Year:        r.Year,
		Description: r.Description,
		Status:      status,
	}
	r.parsed.Incomes, r.parsed.Deductions, err = parseLineItems(r.Incomes, r.Deductions)
	return err
}

// Input returns the validated service input with the declaration ID filled in.
func (r *UpdateDeclarationRequest) Input(declarationID id.DeclarationID) service.UpdateInput {
	input := r.parsed
	input.DeclarationID = declarationID
	return input
}

func parseStatus(raw string) (models.DeclarationStatus, error) {
	status := models.DeclarationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "status must be DRAFT or SUBMITTED, got %q", raw)
	}
	return status, nil
}

func parseLineItems(incomes []IncomeRequest, deductions []DeductionRequest) ([]service.IncomeInput, []service.DeductionInput, error) {
	incomeInputs := make([]service.IncomeInput, 0, len(incomes))
	for i := range incomes {
		input, err := incomes[i].toInput()
		if err != nil {
			return nil, nil, err
		}
		incomeInputs = append(incomeInputs, input)
	}
	deductionInputs := make([]service.DeductionInput, 0, len(deductions))
	for i := range deductions {
		input, err := deductions[i].toInput()
		if err != nil {
			return nil, nil, err
		}
		deductionInputs = append(deductionInputs, input)
	}
	return incomeInputs, deductionInputs, nil
}
