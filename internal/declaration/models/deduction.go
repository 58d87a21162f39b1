package models

import (
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
	"taxfill/pkg/watchlist"
)

// DeductionType classifies a deduction line item.
type DeductionType string

const (
	DeductionTypeHealth     DeductionType = "HEALTH"
	DeductionTypeEducation  DeductionType = "EDUCATION"
	DeductionTypeDependents DeductionType = "DEPENDENTS"
	DeductionTypeOther      DeductionType = "OTHER"
)

func (t DeductionType) Valid() bool {
	switch t {
	case DeductionTypeHealth, DeductionTypeEducation, DeductionTypeDependents, DeductionTypeOther:
		return true
	}
	return false
}

// Deduction is a declaration line item. It supports in-place partial update
// while keeping its identity, which is what lets change tracking treat an
// edited deduction as unchanged membership rather than a remove-plus-add.
// Income deliberately has no equivalent; do not unify the two.
type Deduction struct {
	ID            id.DeductionID   `json:"id"`
	Type          DeductionType    `json:"type"`
	Description   string           `json:"description,omitempty"`
	Amount        float64          `json:"amount"`
	DeclarationID id.DeclarationID `json:"declaration_id"`
}

// NewDeduction constructs a deduction line item. A zero deductionID requests
// a fresh identity.
func NewDeduction(deductionID id.DeductionID, typ DeductionType, description string, amount float64, declarationID id.DeclarationID) (*Deduction, error) {
	if !typ.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "invalid deduction type %q", typ)
	}
	if amount < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "deduction amount cannot be negative")
	}
	if deductionID.IsZero() {
		deductionID = id.NewDeductionID()
	}
	return &Deduction{
		ID:            deductionID,
		Type:          typ,
		Description:   description,
		Amount:        amount,
		DeclarationID: declarationID,
	}, nil
}

// DeductionPatch carries the fields of an in-place partial update. Nil fields
// are left untouched.
type DeductionPatch struct {
	Type          *DeductionType
	Description   *string
	Amount        *float64
	DeclarationID *id.DeclarationID
}

// ApplyUpdate mutates the deduction in place, leaving its identity unchanged.
func (d *Deduction) ApplyUpdate(patch DeductionPatch) error {
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return dErrors.Newf(dErrors.CodeInvariantViolation, "invalid deduction type %q", *patch.Type)
		}
		d.Type = *patch.Type
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Amount != nil {
		if *patch.Amount < 0 {
			return dErrors.New(dErrors.CodeInvariantViolation, "deduction amount cannot be negative")
		}
		d.Amount = *patch.Amount
	}
	if patch.DeclarationID != nil {
		d.DeclarationID = *patch.DeclarationID
	}
	return nil
}

// SameDeduction is the identity predicate for deduction collections.
func SameDeduction(a, b *Deduction) bool { return a.ID == b.ID }

// NewDeductionList builds a tracked deduction collection whose baseline is
// the given items.
func NewDeductionList(items ...*Deduction) *watchlist.List[*Deduction] {
	return watchlist.New(SameDeduction, items...)
}
