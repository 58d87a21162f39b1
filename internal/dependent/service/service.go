package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"taxfill/internal/dependent/models"
	"taxfill/internal/dependent/store"
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
	"taxfill/pkg/requestcontext"
)

// CreateInput carries a dependent to register.
type CreateInput struct {
	Name         string
	BirthDate    time.Time
	Relationship models.Relationship
}

// Service manages a user's dependents.
type Service struct {
	dependents store.DependentStore
	logger     *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(dependents store.DependentStore, opts ...Option) (*Service, error) {
	if dependents == nil {
		return nil, errors.New("dependent store is required")
	}
	s := &Service{dependents: dependents}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create registers a dependent for the user.
func (s *Service) Create(ctx context.Context, userID id.UserID, input CreateInput) (*models.Dependent, error) {
	dependent, err := models.NewDependent(userID, input.Name, input.BirthDate, input.Relationship, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeBadRequest, err.Error())
		}
		return nil, err
	}
	if err := s.dependents.Create(ctx, dependent); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create dependent")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "dependent created",
			"dependent_id", dependent.ID,
			"relationship", dependent.Relationship)
	}
	return dependent, nil
}

// List returns the user's dependents.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]*models.Dependent, error) {
	dependents, err := s.dependents.FindManyByUserID(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list dependents")
	}
	return dependents, nil
}
