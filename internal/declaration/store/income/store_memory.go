package income

import (
	"context"
	"sync"

	"taxfill/internal/declaration/models"
	id "taxfill/pkg/domain"
)

// InMemoryStore keeps income rows in memory. It stores copies, so reading a
// row back yields a fresh entity exactly like a database round trip would.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows []models.Income
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) CreateMany(_ context.Context, incomes []*models.Income, declarationID id.DeclarationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, income := range incomes {
		row := *income
		row.DeclarationID = declarationID
		s.rows = append(s.rows, row)
	}
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, income *models.Income, declarationID id.DeclarationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.rows {
		if row.ID == income.ID {
			updated := *income
			updated.DeclarationID = declarationID
			s.rows[i] = updated
			return nil
		}
	}
	return nil
}

func (s *InMemoryStore) DeleteMany(_ context.Context, incomes []*models.Income) error {
	if len(incomes) == 0 {
		return nil
	}
	doomed := make(map[id.IncomeID]struct{}, len(incomes))
	for _, income := range incomes {
		doomed[income.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if _, ok := doomed[row.ID]; !ok {
			kept = append(kept, row)
		}
	}
	s.rows = kept
	return nil
}

func (s *InMemoryStore) FindManyByDeclarationID(_ context.Context, declarationID id.DeclarationID) ([]*models.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var incomes []*models.Income
	for _, row := range s.rows {
		if row.DeclarationID == declarationID {
			copied := row
			incomes = append(incomes, &copied)
		}
	}
	return incomes, nil
}
