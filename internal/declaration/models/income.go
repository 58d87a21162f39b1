package models

import (
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
	"taxfill/pkg/watchlist"
)

// IncomeType classifies an income line item.
type IncomeType string

const (
	IncomeTypeSalary     IncomeType = "SALARY"
	IncomeTypeRent       IncomeType = "RENT"
	IncomeTypeInvestment IncomeType = "INVESTMENT"
	IncomeTypeOther      IncomeType = "OTHER"
)

func (t IncomeType) Valid() bool {
	switch t {
	case IncomeTypeSalary, IncomeTypeRent, IncomeTypeInvestment, IncomeTypeOther:
		return true
	}
	return false
}

// Income is a declaration line item. Unlike Deduction it is never mutated in
// place: an edit replaces it with a new entity, or re-adds it unchanged under
// the same identity.
type Income struct {
	ID            id.IncomeID      `json:"id"`
	Type          IncomeType       `json:"type"`
	Description   string           `json:"description,omitempty"`
	Amount        float64          `json:"amount"`
	DeclarationID id.DeclarationID `json:"declaration_id"`
}

// NewIncome constructs an income line item. A zero incomeID requests a fresh
// identity; callers supplying one keep the existing identity across an edit.
func NewIncome(incomeID id.IncomeID, typ IncomeType, description string, amount float64, declarationID id.DeclarationID) (*Income, error) {
	if !typ.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "invalid income type %q", typ)
	}
	if amount < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "income amount cannot be negative")
	}
	if incomeID.IsZero() {
		incomeID = id.NewIncomeID()
	}
	return &Income{
		ID:            incomeID,
		Type:          typ,
		Description:   description,
		Amount:        amount,
		DeclarationID: declarationID,
	}, nil
}

// SameIncome is the identity predicate for income collections.
func SameIncome(a, b *Income) bool { return a.ID == b.ID }

// NewIncomeList builds a tracked income collection whose baseline is the
// given items.
func NewIncomeList(items ...*Income) *watchlist.List[*Income] {
	return watchlist.New(SameIncome, items...)
}
