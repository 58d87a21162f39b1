package declaration

import (
	"context"
	"sync"

	"taxfill/internal/declaration/models"
	"taxfill/internal/declaration/store"
	id "taxfill/pkg/domain"
	"taxfill/pkg/platform/sentinel"
)

// declarationRow is the scalar slice of the aggregate the store persists.
// Line items live in the line-item stores, exactly as in PostgreSQL.
type declarationRow struct {
	decl            models.Declaration
	totalIncome     float64
	totalDeductions float64
}

// InMemoryStore mirrors the PostgreSQL store's behavior in memory, including
// the submitted-per-user-year uniqueness rule the partial index enforces.
// It doubles as the test fake for the service and handler suites.
type InMemoryStore struct {
	mu         sync.RWMutex
	rows       map[id.DeclarationID]declarationRow
	order      []id.DeclarationID
	incomes    store.IncomeStore
	deductions store.DeductionStore
}

// NewInMemory constructs an in-memory declaration store driving the given
// line-item stores.
func NewInMemory(incomes store.IncomeStore, deductions store.DeductionStore) *InMemoryStore {
	return &InMemoryStore{
		rows:       make(map[id.DeclarationID]declarationRow),
		incomes:    incomes,
		deductions: deductions,
	}
}

func (s *InMemoryStore) CreateDraft(ctx context.Context, d *models.Declaration, totalIncomes, totalDeductions float64) error {
	s.mu.Lock()
	if d.Status == models.StatusSubmitted && s.submittedExistsLocked(d.UserID, d.Year, d.ID) {
		s.mu.Unlock()
		return sentinel.ErrConflict
	}
	s.rows[d.ID] = declarationRow{decl: snapshot(d), totalIncome: totalIncomes, totalDeductions: totalDeductions}
	s.order = append(s.order, d.ID)
	s.mu.Unlock()

	if err := s.incomes.CreateMany(ctx, d.Incomes.Items(), d.ID); err != nil {
		return err
	}
	return s.deductions.CreateMany(ctx, d.Deductions.Items(), d.ID)
}

func (s *InMemoryStore) Update(ctx context.Context, d *models.Declaration, totalIncomes, totalDeductions float64) error {
	s.mu.Lock()
	if _, ok := s.rows[d.ID]; !ok {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	if d.Status == models.StatusSubmitted && s.submittedExistsLocked(d.UserID, d.Year, d.ID) {
		s.mu.Unlock()
		return sentinel.ErrConflict
	}
	s.rows[d.ID] = declarationRow{decl: snapshot(d), totalIncome: totalIncomes, totalDeductions: totalDeductions}
	s.mu.Unlock()

	if err := s.deductions.DeleteMany(ctx, d.Deductions.Removed()); err != nil {
		return err
	}
	if err := s.deductions.CreateMany(ctx, d.Deductions.Added(), d.ID); err != nil {
		return err
	}
	for _, deduction := range d.Deductions.Items() {
		if err := s.deductions.Update(ctx, deduction, d.ID); err != nil {
			return err
		}
	}

	if err := s.incomes.DeleteMany(ctx, d.Incomes.Removed()); err != nil {
		return err
	}
	if err := s.incomes.CreateMany(ctx, d.Incomes.Added(), d.ID); err != nil {
		return err
	}
	for _, income := range d.Incomes.Items() {
		if err := s.incomes.Update(ctx, income, d.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, declarationID id.DeclarationID) (*models.Declaration, error) {
	s.mu.RLock()
	row, ok := s.rows[declarationID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.rebuild(ctx, row)
}

func (s *InMemoryStore) FindByYear(ctx context.Context, userID id.UserID, year int) ([]*models.Declaration, error) {
	return s.findMatching(ctx, func(row declarationRow) bool {
		return row.decl.UserID == userID && row.decl.Year == year
	})
}

func (s *InMemoryStore) Find(ctx context.Context, userID id.UserID, filter store.Filter) ([]*models.Declaration, error) {
	return s.findMatching(ctx, func(row declarationRow) bool {
		if row.decl.UserID != userID {
			return false
		}
		if filter.Year != nil && row.decl.Year != *filter.Year {
			return false
		}
		if filter.Status != nil && row.decl.Status != *filter.Status {
			return false
		}
		return true
	})
}

// TotalsFor exposes the persisted totals for assertions in tests.
func (s *InMemoryStore) TotalsFor(declarationID id.DeclarationID) (totalIncome, totalDeductions float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[declarationID]
	return row.totalIncome, row.totalDeductions, ok
}

// Len reports how many declarations have been persisted.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *InMemoryStore) findMatching(ctx context.Context, match func(declarationRow) bool) ([]*models.Declaration, error) {
	s.mu.RLock()
	var matched []declarationRow
	for _, declID := range s.order {
		if row, ok := s.rows[declID]; ok && match(row) {
			matched = append(matched, row)
		}
	}
	s.mu.RUnlock()

	declarations := make([]*models.Declaration, 0, len(matched))
	for _, row := range matched {
		d, err := s.rebuild(ctx, row)
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, d)
	}
	return declarations, nil
}

// rebuild reloads the aggregate the way a database read would: scalar row
// plus line items, with the tracked collections' baseline equal to current.
func (s *InMemoryStore) rebuild(ctx context.Context, row declarationRow) (*models.Declaration, error) {
	d := row.decl
	incomes, err := s.incomes.FindManyByDeclarationID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	deductions, err := s.deductions.FindManyByDeclarationID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Incomes = models.NewIncomeList(incomes...)
	d.Deductions = models.NewDeductionList(deductions...)
	return &d, nil
}

func (s *InMemoryStore) submittedExistsLocked(userID id.UserID, year int, self id.DeclarationID) bool {
	for declID, row := range s.rows {
		if declID == self {
			continue
		}
		if row.decl.UserID == userID && row.decl.Year == year && row.decl.Status == models.StatusSubmitted {
			return true
		}
	}
	return false
}

// snapshot copies the scalar fields; the collections are rebuilt on read.
func snapshot(d *models.Declaration) models.Declaration {
	copied := *d
	copied.Incomes = nil
	copied.Deductions = nil
	return copied
}
