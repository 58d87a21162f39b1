package service

import (
	"context"
	"errors"

	"taxfill/internal/declaration/models"
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
	"taxfill/pkg/platform/sentinel"
	"taxfill/pkg/requestcontext"
)

// CreateInput carries a full declaration to create. TaxDue and TaxRefund are
// taken at face value for drafts; a submission discards them and computes the
// real figures from the line items.
type CreateInput struct {
	Year        int
	Description string
	Status      models.DeclarationStatus
	TaxDue      float64
	TaxRefund   float64
	Incomes     []IncomeInput
	Deductions  []DeductionInput
}

// Create builds and persists a declaration for the user. Submissions are
// validated and taxed; drafts are stored as given, caller-supplied tax
// figures included.
func (s *Service) Create(ctx context.Context, userID id.UserID, input CreateInput) (*models.Declaration, error) {
	if !input.Status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "invalid declaration status %q", input.Status)
	}

	d, err := models.NewDeclaration(id.DeclarationID{}, userID, input.Year, input.Description,
		input.Status, input.TaxDue, input.TaxRefund, requestcontext.Now(ctx))
	if err != nil {
		return nil, asBadRequest(err)
	}

	for _, in := range input.Incomes {
		income, err := newIncomeFromInput(in, d.ID)
		if err != nil {
			return nil, asBadRequest(err)
		}
		d.Incomes.Add(income)
	}
	for _, in := range input.Deductions {
		deduction, err := newDeductionFromInput(in, d.ID)
		if err != nil {
			return nil, asBadRequest(err)
		}
		d.Deductions.Add(deduction)
	}

	totalIncome := d.TotalIncome()
	totalDeductions := d.TotalDeductions()

	// Shape validation comes before the sibling query: a malformed
	// submission is a bad request even when a submitted sibling exists.
	if d.Status == models.StatusSubmitted {
		if err := d.CanSubmit(); err != nil {
			return nil, err
		}
		if err := s.ensureNoSubmitted(ctx, userID, input.Year); err != nil {
			return nil, err
		}
		result := s.computeTax(totalIncome, totalDeductions)
		d.TaxDue = result.TaxDue
		d.TaxRefund = result.TaxRefund
	}

	if err := s.declarations.CreateDraft(ctx, d, totalIncome, totalDeductions); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementSubmissionConflict()
			return nil, dErrors.Newf(dErrors.CodeConflict,
				"a declaration for year %d has already been submitted", input.Year)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create declaration")
	}

	s.metrics.IncrementSaved("create", string(d.Status))
	s.logInfo(ctx, "declaration created",
		"declaration_id", d.ID,
		"year", d.Year,
		"status", d.Status)
	return d, nil
}

func newIncomeFromInput(in IncomeInput, declarationID id.DeclarationID) (*models.Income, error) {
	incomeID := id.IncomeID{}
	if in.ID != nil {
		incomeID = *in.ID
	}
	return models.NewIncome(incomeID, in.Type, in.Description, in.Amount, declarationID)
}

func newDeductionFromInput(in DeductionInput, declarationID id.DeclarationID) (*models.Deduction, error) {
	deductionID := id.DeductionID{}
	if in.ID != nil {
		deductionID = *in.ID
	}
	return models.NewDeduction(deductionID, in.Type, in.Description, in.Amount, declarationID)
}
