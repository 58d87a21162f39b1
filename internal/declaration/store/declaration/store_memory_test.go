package declaration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"taxfill/internal/declaration/models"
	"taxfill/internal/declaration/store"
	deductionstore "taxfill/internal/declaration/store/deduction"
	incomestore "taxfill/internal/declaration/store/income"
	id "taxfill/pkg/domain"
	"taxfill/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx        context.Context
	store      *InMemoryStore
	incomes    *incomestore.InMemoryStore
	deductions *deductionstore.InMemoryStore
	userID     id.UserID
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.incomes = incomestore.NewInMemory()
	s.deductions = deductionstore.NewInMemory()
	s.store = NewInMemory(s.incomes, s.deductions)
	s.userID = id.NewUserID()
}

func (s *MemoryStoreSuite) newDeclaration(status models.DeclarationStatus, incomes []*models.Income, deductions []*models.Deduction) *models.Declaration {
	d, err := models.NewDeclaration(id.DeclarationID{}, s.userID, 2025, "", status, 0, 0, time.Now())
	s.Require().NoError(err)
	d.Incomes = models.NewIncomeList(incomes...)
	d.Deductions = models.NewDeductionList(deductions...)
	return d
}

func (s *MemoryStoreSuite) income(amount float64, declID id.DeclarationID) *models.Income {
	income, err := models.NewIncome(id.IncomeID{}, models.IncomeTypeSalary, "", amount, declID)
	s.Require().NoError(err)
	return income
}

func (s *MemoryStoreSuite) deduction(amount float64, declID id.DeclarationID) *models.Deduction {
	deduction, err := models.NewDeduction(id.DeductionID{}, models.DeductionTypeHealth, "", amount, declID)
	s.Require().NoError(err)
	return deduction
}

func (s *MemoryStoreSuite) TestCreateDraftAndReload() {
	d := s.newDeclaration(models.StatusDraft, nil, nil)
	d.Incomes = models.NewIncomeList(s.income(1000, d.ID), s.income(500, d.ID))
	d.Deductions = models.NewDeductionList(s.deduction(200, d.ID))

	s.Require().NoError(s.store.CreateDraft(s.ctx, d, 1500, 200))

	loaded, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(d.ID, loaded.ID)
	s.Len(loaded.Incomes.Items(), 2)
	s.Len(loaded.Deductions.Items(), 1)

	s.Run("reloaded aggregate reports no changes", func() {
		s.Empty(loaded.Incomes.Added())
		s.Empty(loaded.Incomes.Removed())
		s.Empty(loaded.Deductions.Added())
		s.Empty(loaded.Deductions.Removed())
	})

	s.Run("persisted totals survive", func() {
		totalIncome, totalDeductions, ok := s.store.TotalsFor(d.ID)
		s.True(ok)
		s.Equal(1500.0, totalIncome)
		s.Equal(200.0, totalDeductions)
	})
}

func (s *MemoryStoreSuite) TestFindByIDUnknown() {
	_, err := s.store.FindByID(s.ctx, id.NewDeclarationID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestUpdateDrivesRowsFromDiffViews() {
	d := s.newDeclaration(models.StatusDraft, nil, nil)
	kept := s.income(1000, d.ID)
	dropped := s.income(500, d.ID)
	d.Incomes = models.NewIncomeList(kept, dropped)
	d.Deductions = models.NewDeductionList(s.deduction(200, d.ID))
	s.Require().NoError(s.store.CreateDraft(s.ctx, d, 1500, 200))

	// Edit the reloaded aggregate: drop one income, add another.
	loaded, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	var loadedDropped *models.Income
	for _, income := range loaded.Incomes.Items() {
		if income.ID == dropped.ID {
			loadedDropped = income
		}
	}
	s.Require().NotNil(loadedDropped)
	loaded.Incomes.Remove(loadedDropped)
	added := s.income(750, d.ID)
	loaded.Incomes.Add(added)

	s.Require().NoError(s.store.Update(s.ctx, loaded, 1750, 200))

	reloaded, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Len(reloaded.Incomes.Items(), 2)

	ids := make(map[id.IncomeID]bool)
	for _, income := range reloaded.Incomes.Items() {
		ids[income.ID] = true
	}
	s.True(ids[kept.ID], "surviving income stays")
	s.True(ids[added.ID], "added income inserted")
	s.False(ids[dropped.ID], "removed income deleted")
}

func (s *MemoryStoreSuite) TestUpdateUnknownDeclaration() {
	d := s.newDeclaration(models.StatusDraft, nil, nil)
	err := s.store.Update(s.ctx, d, 0, 0)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestSubmittedUniquenessPerUserYear() {
	first := s.newDeclaration(models.StatusSubmitted, nil, nil)
	first.Incomes = models.NewIncomeList(s.income(1000, first.ID))
	first.Deductions = models.NewDeductionList(s.deduction(100, first.ID))
	s.Require().NoError(s.store.CreateDraft(s.ctx, first, 1000, 100))

	s.Run("second submitted declaration conflicts", func() {
		second := s.newDeclaration(models.StatusSubmitted, nil, nil)
		second.Incomes = models.NewIncomeList(s.income(2000, second.ID))
		second.Deductions = models.NewDeductionList(s.deduction(50, second.ID))
		err := s.store.CreateDraft(s.ctx, second, 2000, 50)
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("draft for the same year is fine", func() {
		draft := s.newDeclaration(models.StatusDraft, nil, nil)
		s.Require().NoError(s.store.CreateDraft(s.ctx, draft, 0, 0))
	})

	s.Run("another user may submit for the same year", func() {
		other := s.newDeclaration(models.StatusSubmitted, nil, nil)
		other.UserID = id.NewUserID()
		other.Incomes = models.NewIncomeList(s.income(100, other.ID))
		other.Deductions = models.NewDeductionList(s.deduction(10, other.ID))
		s.Require().NoError(s.store.CreateDraft(s.ctx, other, 100, 10))
	})
}

func (s *MemoryStoreSuite) TestFindFilters() {
	draft := s.newDeclaration(models.StatusDraft, nil, nil)
	s.Require().NoError(s.store.CreateDraft(s.ctx, draft, 0, 0))

	older, err := models.NewDeclaration(id.DeclarationID{}, s.userID, 2024, "", models.StatusDraft, 0, 0, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateDraft(s.ctx, older, 0, 0))

	s.Run("by year", func() {
		year := 2024
		found, err := s.store.Find(s.ctx, s.userID, store.Filter{Year: &year})
		s.Require().NoError(err)
		s.Len(found, 1)
		s.Equal(older.ID, found[0].ID)
	})

	s.Run("scoped to owner", func() {
		found, err := s.store.Find(s.ctx, id.NewUserID(), store.Filter{})
		s.Require().NoError(err)
		s.Empty(found)
	})
}
