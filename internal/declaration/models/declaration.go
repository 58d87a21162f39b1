package models

import (
	"time"

	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
	"taxfill/pkg/watchlist"
)

// DeclarationStatus is the lifecycle state of a declaration.
//
// The only transition is DRAFT → SUBMITTED. No SUBMITTED → DRAFT transition
// exists; the service layer rejects such requests.
type DeclarationStatus string

const (
	StatusDraft     DeclarationStatus = "DRAFT"
	StatusSubmitted DeclarationStatus = "SUBMITTED"
)

func (s DeclarationStatus) Valid() bool {
	return s == StatusDraft || s == StatusSubmitted
}

// Declaration is the aggregate root for a taxpayer's annual declaration. It
// owns its income and deduction collections and the derived tax figures.
//
// Invariants:
//   - TaxDue and TaxRefund are non-negative
//   - When Status is SUBMITTED, both collections are non-empty and every line
//     item's amount is strictly positive (CanSubmit)
//
// The cross-aggregate rule — at most one SUBMITTED declaration per user and
// year — cannot be checked here because it requires querying sibling
// declarations. The service layer enforces it, backed by a storage-level
// unique constraint.
type Declaration struct {
	ID                    id.DeclarationID
	UserID                id.UserID
	Year                  int
	Description           string
	Status                DeclarationStatus
	Incomes               *watchlist.List[*Income]
	Deductions            *watchlist.List[*Deduction]
	TaxDue                float64
	TaxRefund             float64
	OriginalDeclarationID *id.DeclarationID
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewDeclaration constructs a declaration with empty collections. A zero
// declarationID requests a fresh identity; the store layer supplies the
// persisted one when rebuilding.
func NewDeclaration(declarationID id.DeclarationID, userID id.UserID, year int, description string, status DeclarationStatus, taxDue, taxRefund float64, now time.Time) (*Declaration, error) {
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "declaration requires an owner")
	}
	if year < 1900 || year > 9999 {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "implausible declaration year %d", year)
	}
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "invalid declaration status %q", status)
	}
	if taxDue < 0 || taxRefund < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tax figures cannot be negative")
	}
	if declarationID.IsZero() {
		declarationID = id.NewDeclarationID()
	}
	return &Declaration{
		ID:          declarationID,
		UserID:      userID,
		Year:        year,
		Description: description,
		Status:      status,
		Incomes:     NewIncomeList(),
		Deductions:  NewDeductionList(),
		TaxDue:      taxDue,
		TaxRefund:   taxRefund,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TotalIncome sums the current income line items.
func (d *Declaration) TotalIncome() float64 {
	var total float64
	for _, income := range d.Incomes.Items() {
		total += income.Amount
	}
	return total
}

// TotalDeductions sums the current deduction line items.
func (d *Declaration) TotalDeductions() float64 {
	var total float64
	for _, deduction := range d.Deductions.Items() {
		total += deduction.Amount
	}
	return total
}

// CanSubmit enforces the shape a SUBMITTED declaration must have: non-empty
// income and deduction collections whose line items all carry a positive
// amount. Workflows call this when finalizing a submission.
func (d *Declaration) CanSubmit() error {
	if d.Incomes.Len() == 0 || d.Deductions.Len() == 0 {
		return dErrors.New(dErrors.CodeBadRequest,
			"incomes and deductions must be populated when status is SUBMITTED")
	}
	for _, income := range d.Incomes.Items() {
		if income.Amount <= 0 {
			return dErrors.New(dErrors.CodeBadRequest,
				"every income amount must be positive when status is SUBMITTED")
		}
	}
	for _, deduction := range d.Deductions.Items() {
		if deduction.Amount <= 0 {
			return dErrors.New(dErrors.CodeBadRequest,
				"every deduction amount must be positive when status is SUBMITTED")
		}
	}
	return nil
}

// FindDeduction returns the current deduction with the given identity, or nil.
func (d *Declaration) FindDeduction(deductionID id.DeductionID) *Deduction {
	for _, deduction := range d.Deductions.Items() {
		if deduction.ID == deductionID {
			return deduction
		}
	}
	return nil
}
