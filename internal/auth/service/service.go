package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taxfill/internal/auth/lockout"
	"taxfill/internal/auth/models"
	"taxfill/internal/auth/store"
	"taxfill/internal/platform/metrics"
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
	"taxfill/pkg/platform/sentinel"
	"taxfill/pkg/requestcontext"
)

const minPasswordLength = 8

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, expiresIn time.Duration) (string, error)
}

// TokenConfig binds the issuer to the access token lifetime.
type TokenConfig struct {
	Issuer         TokenIssuer
	AccessTokenTTL time.Duration
}

// Service handles registration and login. Passwords are bcrypt-hashed on
// registration and never stored or logged in clear text.
type Service struct {
	users      store.UserStore
	tokens     *TokenConfig
	lockout    *lockout.Tracker
	logger     *slog.Logger
	metrics    *metrics.Metrics
	bcryptCost int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithLockout(tracker *lockout.Tracker) Option {
	return func(s *Service) {
		s.lockout = tracker
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(users store.UserStore, tokens *TokenConfig, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if tokens == nil || tokens.Issuer == nil {
		return nil, errors.New("token config is required")
	}
	s := &Service{users: users, tokens: tokens, bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates a user account. The email must not already be taken.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if len(password) < minPasswordLength {
		return nil, dErrors.Newf(dErrors.CodeBadRequest,
			"password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user, err := models.NewUser(name, email, string(hash), requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeBadRequest, err.Error())
		}
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.metrics.IncrementUsersCreated()
	s.logInfo(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and returns a signed access token. Unknown
// emails and wrong passwords produce the same error, and both count toward
// the lockout.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	normalized, err := models.NormalizeEmail(email)
	if err != nil {
		return "", nil, invalidCredentials()
	}

	if s.lockout != nil {
		if err := s.lockout.Check(ctx, normalized); err != nil {
			return "", nil, err
		}
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.countFailure(ctx, normalized)
			return "", nil, invalidCredentials()
		}
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.countFailure(ctx, normalized)
		return "", nil, invalidCredentials()
	}

	if s.lockout != nil {
		if err := s.lockout.Clear(ctx, normalized); err != nil {
			s.logWarn(ctx, "failed to clear lockout state", "error", err)
		}
	}

	token, err := s.tokens.Issuer.GenerateAccessToken(user.ID, s.tokens.AccessTokenTTL)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logInfo(ctx, "user logged in", "user_id", user.ID)
	return token, user, nil
}

func (s *Service) countFailure(ctx context.Context, email string) {
	if s.lockout == nil {
		return
	}
	locked, err := s.lockout.RecordFailure(ctx, email)
	if err != nil {
		s.logWarn(ctx, "failed to record login failure", "error", err)
		return
	}
	if locked {
		s.logWarn(ctx, "account locked after repeated failures")
	}
}

func invalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}
