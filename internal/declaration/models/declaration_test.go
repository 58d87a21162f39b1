package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
)

func newTestDeclaration(t *testing.T, status DeclarationStatus) *Declaration {
	t.Helper()
	d, err := NewDeclaration(id.DeclarationID{}, id.NewUserID(), 2025, "", status, 0, 0, time.Now())
	require.NoError(t, err)
	return d
}

func mustIncome(t *testing.T, amount float64, declarationID id.DeclarationID) *Income {
	t.Helper()
	income, err := NewIncome(id.IncomeID{}, IncomeTypeSalary, "", amount, declarationID)
	require.NoError(t, err)
	return income
}

func mustDeduction(t *testing.T, amount float64, declarationID id.DeclarationID) *Deduction {
	t.Helper()
	deduction, err := NewDeduction(id.DeductionID{}, DeductionTypeHealth, "", amount, declarationID)
	require.NoError(t, err)
	return deduction
}

func TestNewDeclarationInvariants(t *testing.T) {
	now := time.Now()

	t.Run("assigns fresh identity when none supplied", func(t *testing.T) {
		d, err := NewDeclaration(id.DeclarationID{}, id.NewUserID(), 2025, "", StatusDraft, 0, 0, now)
		require.NoError(t, err)
		assert.False(t, d.ID.IsZero())
	})

	t.Run("keeps supplied identity", func(t *testing.T) {
		declID := id.NewDeclarationID()
		d, err := NewDeclaration(declID, id.NewUserID(), 2025, "", StatusDraft, 0, 0, now)
		require.NoError(t, err)
		assert.Equal(t, declID, d.ID)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		_, err := NewDeclaration(id.DeclarationID{}, id.UserID{}, 2025, "", StatusDraft, 0, 0, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects negative tax figures", func(t *testing.T) {
		_, err := NewDeclaration(id.DeclarationID{}, id.NewUserID(), 2025, "", StatusDraft, -1, 0, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewDeclaration(id.DeclarationID{}, id.NewUserID(), 2025, "", DeclarationStatus("PENDING"), 0, 0, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestCanSubmit(t *testing.T) {
	t.Run("rejects empty collections", func(t *testing.T) {
		d := newTestDeclaration(t, StatusSubmitted)
		err := d.CanSubmit()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		d := newTestDeclaration(t, StatusSubmitted)
		d.Incomes = NewIncomeList(mustIncome(t, 0, d.ID))
		d.Deductions = NewDeductionList(mustDeduction(t, 100, d.ID))
		err := d.CanSubmit()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("accepts populated positive line items", func(t *testing.T) {
		d := newTestDeclaration(t, StatusSubmitted)
		d.Incomes = NewIncomeList(mustIncome(t, 1000, d.ID))
		d.Deductions = NewDeductionList(mustDeduction(t, 100, d.ID))
		assert.NoError(t, d.CanSubmit())
	})
}

func TestTotals(t *testing.T) {
	d := newTestDeclaration(t, StatusDraft)
	d.Incomes = NewIncomeList(mustIncome(t, 1000, d.ID), mustIncome(t, 250.50, d.ID))
	d.Deductions = NewDeductionList(mustDeduction(t, 99.50, d.ID))

	assert.InDelta(t, 1250.50, d.TotalIncome(), 1e-9)
	assert.InDelta(t, 99.50, d.TotalDeductions(), 1e-9)
}

func TestDeductionApplyUpdate(t *testing.T) {
	declID := id.NewDeclarationID()
	deduction := mustDeduction(t, 100, declID)
	originalID := deduction.ID

	newType := DeductionTypeEducation
	newAmount := 250.0
	newDescription := "night classes"
	err := deduction.ApplyUpdate(DeductionPatch{
		Type:        &newType,
		Amount:      &newAmount,
		Description: &newDescription,
	})
	require.NoError(t, err)

	assert.Equal(t, originalID, deduction.ID, "identity must survive a partial update")
	assert.Equal(t, DeductionTypeEducation, deduction.Type)
	assert.Equal(t, 250.0, deduction.Amount)
	assert.Equal(t, "night classes", deduction.Description)
	assert.Equal(t, declID, deduction.DeclarationID, "untouched fields keep their values")
}

func TestDeductionApplyUpdateRejectsBadValues(t *testing.T) {
	deduction := mustDeduction(t, 100, id.NewDeclarationID())

	negative := -5.0
	err := deduction.ApplyUpdate(DeductionPatch{Amount: &negative})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	assert.Equal(t, 100.0, deduction.Amount)

	bogus := DeductionType("LUXURY")
	err = deduction.ApplyUpdate(DeductionPatch{Type: &bogus})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestLineItemConstruction(t *testing.T) {
	declID := id.NewDeclarationID()

	t.Run("income rejects negative amount", func(t *testing.T) {
		_, err := NewIncome(id.IncomeID{}, IncomeTypeSalary, "", -1, declID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("income rejects unknown type", func(t *testing.T) {
		_, err := NewIncome(id.IncomeID{}, IncomeType("TIPS"), "", 10, declID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("line items keep a supplied identity", func(t *testing.T) {
		incomeID := id.NewIncomeID()
		income, err := NewIncome(incomeID, IncomeTypeRent, "", 10, declID)
		require.NoError(t, err)
		assert.Equal(t, incomeID, income.ID)
	})
}
