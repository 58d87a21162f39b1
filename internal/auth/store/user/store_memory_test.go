package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"taxfill/internal/auth/models"
	id "taxfill/pkg/domain"
	"taxfill/pkg/platform/sentinel"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
}

func (s *InMemoryUserStoreSuite) newUser(email string) *models.User {
	user, err := models.NewUser("Jane Doe", email, "hash", time.Now())
	s.Require().NoError(err)
	return user
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	s.Run("returns user by ID when exists", func() {
		user := s.newUser("jane.doe@example.com")
		s.Require().NoError(s.store.Create(context.Background(), user))

		found, err := s.store.FindByID(context.Background(), user.ID)
		s.Require().NoError(err)
		s.Equal(user, found)
	})

	s.Run("returns user by email when exists", func() {
		user := s.newUser("email.lookup@example.com")
		s.Require().NoError(s.store.Create(context.Background(), user))

		found, err := s.store.FindByEmail(context.Background(), user.Email)
		s.Require().NoError(err)
		s.Equal(user, found)
	})

	s.Run("email lookup is case-insensitive", func() {
		user := s.newUser("mixed.case@example.com")
		s.Require().NoError(s.store.Create(context.Background(), user))

		found, err := s.store.FindByEmail(context.Background(), "Mixed.Case@Example.COM")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("returns ErrNotFound when user ID does not exist", func() {
		_, err := s.store.FindByID(context.Background(), id.NewUserID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound when email does not exist", func() {
		_, err := s.store.FindByEmail(context.Background(), "missing@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryUserStoreSuite) TestEmailUniqueness() {
	first := s.newUser("taken@example.com")
	s.Require().NoError(s.store.Create(context.Background(), first))

	second := s.newUser("taken@example.com")
	err := s.store.Create(context.Background(), second)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}
