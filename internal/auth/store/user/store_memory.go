package user

import (
	"context"
	"strings"
	"sync"

	"taxfill/internal/auth/models"
	id "taxfill/pkg/domain"
	"taxfill/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users in memory with the same email-uniqueness rule
// as the PostgreSQL store.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[id.UserID]models.User
	byEmail map[string]id.UserID
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		byID:    make(map[id.UserID]models.User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, taken := s.byEmail[key]; taken {
		return sentinel.ErrConflict
	}
	s.byID[user.ID] = *user
	s.byEmail[key] = user.ID
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	user := s.byID[userID]
	return &user, nil
}
