package dependent

import (
	"context"
	"sync"

	"taxfill/internal/dependent/models"
	id "taxfill/pkg/domain"
)

// InMemoryStore keeps dependents in memory, insertion-ordered per user.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows []models.Dependent
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(_ context.Context, dependent *models.Dependent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, *dependent)
	return nil
}

func (s *InMemoryStore) FindManyByUserID(_ context.Context, userID id.UserID) ([]*models.Dependent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var dependents []*models.Dependent
	for _, row := range s.rows {
		if row.UserID == userID {
			copied := row
			dependents = append(dependents, &copied)
		}
	}
	return dependents, nil
}
