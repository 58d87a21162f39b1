package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	jwttoken "taxfill/internal/jwt_token"

	"taxfill/internal/auth/lockout"
	"taxfill/internal/auth/store/user"
	dErrors "taxfill/pkg/domain-errors"
)

type AuthServiceSuite struct {
	suite.Suite
	ctx     context.Context
	users   *user.InMemoryUserStore
	service *Service
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = user.New()

	tokens := &TokenConfig{
		Issuer:         jwttoken.NewJWTService("test-signing-key", "taxfill", "taxfill-api"),
		AccessTokenTTL: time.Hour,
	}
	svc, err := New(s.users, tokens,
		WithLockout(lockout.New(lockout.NewMemoryCounter(), 3, time.Minute)),
		WithBcryptCost(bcrypt.MinCost))
	s.Require().NoError(err)
	s.service = svc
}

func (s *AuthServiceSuite) TestRegisterAndLogin() {
	registered, err := s.service.Register(s.ctx, "Jane Doe", "Jane@Example.com", "s3cretpass")
	s.Require().NoError(err)
	s.Equal("jane@example.com", registered.Email, "email is normalized")
	s.NotEqual("s3cretpass", registered.PasswordHash)

	token, loggedIn, err := s.service.Login(s.ctx, "jane@example.com", "s3cretpass")
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.Equal(registered.ID, loggedIn.ID)
}

func (s *AuthServiceSuite) TestRegisterRejectsBadInput() {
	s.Run("short password", func() {
		_, err := s.service.Register(s.ctx, "Jane", "jane@example.com", "short")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("invalid email", func() {
		_, err := s.service.Register(s.ctx, "Jane", "not-an-email", "s3cretpass")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("missing name", func() {
		_, err := s.service.Register(s.ctx, "  ", "jane@example.com", "s3cretpass")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *AuthServiceSuite) TestRegisterDuplicateEmailConflicts() {
	_, err := s.service.Register(s.ctx, "Jane", "jane@example.com", "s3cretpass")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "Impostor", "JANE@example.com", "otherpass123")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *AuthServiceSuite) TestLoginRejectsBadCredentials() {
	_, err := s.service.Register(s.ctx, "Jane", "jane@example.com", "s3cretpass")
	s.Require().NoError(err)

	s.Run("unknown email", func() {
		_, _, err := s.service.Login(s.ctx, "nobody@example.com", "s3cretpass")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("wrong password", func() {
		_, _, err := s.service.Login(s.ctx, "jane@example.com", "wrongpass")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *AuthServiceSuite) TestLoginLockoutAfterRepeatedFailures() {
	_, err := s.service.Register(s.ctx, "Jane", "jane@example.com", "s3cretpass")
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		_, _, err := s.service.Login(s.ctx, "jane@example.com", "wrongpass")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}

	s.Run("further attempts are throttled even with the right password", func() {
		_, _, err := s.service.Login(s.ctx, "jane@example.com", "s3cretpass")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTooManyRequests))
	})
}

func (s *AuthServiceSuite) TestSuccessfulLoginClearsFailures() {
	_, err := s.service.Register(s.ctx, "Jane", "jane@example.com", "s3cretpass")
	s.Require().NoError(err)

	for i := 0; i < 2; i++ {
		_, _, err := s.service.Login(s.ctx, "jane@example.com", "wrongpass")
		s.Require().Error(err)
	}
	_, _, err = s.service.Login(s.ctx, "jane@example.com", "s3cretpass")
	s.Require().NoError(err)

	// The counter restarted, so two more failures still stay below the limit.
	for i := 0; i < 2; i++ {
		_, _, err := s.service.Login(s.ctx, "jane@example.com", "wrongpass")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}
}
