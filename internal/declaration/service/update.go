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

// UpdateInput carries the desired end state of a declaration. The line-item
// slices are authoritative: current items absent from them are removed. A nil
// Description keeps the stored one. Year applies to drafts only; the year of
// a submitted declaration is frozen.
type UpdateInput struct {
	DeclarationID id.DeclarationID
	Year          int
	Description   *string
	Status        models.DeclarationStatus
	Incomes       []IncomeInput
	Deductions    []DeductionInput
}

// Update reconciles a stored declaration against the requested end state and
// persists the difference. Incomes are replaced wholesale by identity;
// deductions matching a current identity are edited in place. Tax figures are
// always recomputed from the resulting line items.
func (s *Service) Update(ctx context.Context, userID id.UserID, input UpdateInput) (*models.Declaration, error) {
	if !input.Status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "invalid declaration status %q", input.Status)
	}
	if input.Year < 1900 || input.Year > 9999 {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "implausible declaration year %d", input.Year)
	}

	d, err := s.declarations.FindByID(ctx, input.DeclarationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "declaration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load declaration")
	}
	if d.UserID != userID {
		// Another user's declaration is indistinguishable from a missing one.
		return nil, dErrors.New(dErrors.CodeNotFound, "declaration not found")
	}

	if d.Status == models.StatusSubmitted && input.Status == models.StatusDraft {
		return nil, dErrors.New(dErrors.CodeBadRequest,
			"a submitted declaration cannot go back to draft")
	}
	if d.Status == models.StatusDraft {
		d.Year = input.Year
	} else if input.Year != d.Year {
		return nil, dErrors.New(dErrors.CodeBadRequest,
			"the year of a submitted declaration cannot be changed")
	}
	if input.Status == models.StatusSubmitted {
		if err := s.ensureNoSubmitted(ctx, userID, d.Year); err != nil {
			return nil, err
		}
	}

	d.Status = input.Status
	if input.Description != nil {
		d.Description = *input.Description
	}

	if err := reconcileIncomes(d, input.Incomes); err != nil {
		return nil, asBadRequest(err)
	}
	if err := reconcileDeductions(d, input.Deductions); err != nil {
		return nil, asBadRequest(err)
	}

	totalIncome := d.TotalIncome()
	totalDeductions := d.TotalDeductions()
	result := s.computeTax(totalIncome, totalDeductions)
	d.TaxDue = result.TaxDue
	d.TaxRefund = result.TaxRefund
	d.UpdatedAt = requestcontext.Now(ctx)

	if d.Status == models.StatusSubmitted {
		if err := d.CanSubmit(); err != nil {
			return nil, err
		}
	}

	if err := s.declarations.Update(ctx, d, totalIncome, totalDeductions); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "declaration not found")
		case errors.Is(err, sentinel.ErrConflict):
			s.metrics.IncrementSubmissionConflict()
			return nil, dErrors.Newf(dErrors.CodeConflict,
				"a declaration for year %d has already been submitted", d.Year)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update declaration")
	}

	s.metrics.IncrementSaved("update", string(d.Status))
	s.logInfo(ctx, "declaration updated",
		"declaration_id", d.ID,
		"year", d.Year,
		"status", d.Status,
		"incomes_added", len(d.Incomes.Added()),
		"incomes_removed", len(d.Incomes.Removed()),
		"deductions_added", len(d.Deductions.Added()),
		"deductions_removed", len(d.Deductions.Removed()))
	return d, nil
}

// reconcileIncomes drives the income collection to the requested set. Inputs
// carrying a known identity keep the stored item untouched; everything else
// enters as a fresh item, and stored items absent from the request leave.
func reconcileIncomes(d *models.Declaration, inputs []IncomeInput) error {
	keep := make(map[id.IncomeID]bool, len(inputs))
	for _, in := range inputs {
		income, err := newIncomeFromInput(in, d.ID)
		if err != nil {
			return err
		}
		d.Incomes.Add(income)
		keep[income.ID] = true
	}

	var gone []*models.Income
	for _, income := range d.Incomes.Items() {
		if !keep[income.ID] {
			gone = append(gone, income)
		}
	}
	for _, income := range gone {
		d.Incomes.Remove(income)
	}
	return nil
}

// reconcileDeductions drives the deduction collection to the requested set.
// Unlike incomes, an input matching a current identity edits that deduction in
// place so change tracking reports it as unchanged membership.
func reconcileDeductions(d *models.Declaration, inputs []DeductionInput) error {
	keep := make(map[id.DeductionID]bool, len(inputs))
	for _, in := range inputs {
		if in.ID != nil {
			if existing := d.FindDeduction(*in.ID); existing != nil {
				typ, description, amount := in.Type, in.Description, in.Amount
				err := existing.ApplyUpdate(models.DeductionPatch{
					Type:        &typ,
					Description: &description,
					Amount:      &amount,
				})
				if err != nil {
					return err
				}
				keep[existing.ID] = true
				continue
			}
		}
		deduction, err := newDeductionFromInput(in, d.ID)
		if err != nil {
			return err
		}
		d.Deductions.Add(deduction)
		keep[deduction.ID] = true
	}

	var gone []*models.Deduction
	for _, deduction := range d.Deductions.Items() {
		if !keep[deduction.ID] {
			gone = append(gone, deduction)
		}
	}
	for _, deduction := range gone {
		d.Deductions.Remove(deduction)
	}
	return nil
}
