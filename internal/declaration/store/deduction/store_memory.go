package deduction

import (
	"context"
	"sync"

	"taxfill/internal/declaration/models"
	id "taxfill/pkg/domain"
)

// InMemoryStore keeps deduction rows in memory, storing copies so reads
// behave like a storage round trip.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows []models.Deduction
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) CreateMany(_ context.Context, deductions []*models.Deduction, declarationID id.DeclarationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, deduction := range deductions {
		row := *deduction
		row.DeclarationID = declarationID
		s.rows = append(s.rows, row)
	}
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, deduction *models.Deduction, declarationID id.DeclarationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.rows {
		if row.ID == deduction.ID {
			updated := *deduction
			updated.DeclarationID = declarationID
			s.rows[i] = updated
			return nil
		}
	}
	return nil
}

func (s *InMemoryStore) DeleteMany(_ context.Context, deductions []*models.Deduction) error {
	if len(deductions) == 0 {
		return nil
	}
	doomed := make(map[id.DeductionID]struct{}, len(deductions))
	for _, deduction := range deductions {
		doomed[deduction.ID] = struct{}{}
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

func (s *InMemoryStore) FindManyByDeclarationID(_ context.Context, declarationID id.DeclarationID) ([]*models.Deduction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var deductions []*models.Deduction
	for _, row := range s.rows {
		if row.DeclarationID == declarationID {
			copied := row
			deductions = append(deductions, &copied)
		}
	}
	return deductions, nil
}
