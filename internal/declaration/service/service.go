package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"taxfill/internal/declaration/metrics"
	"taxfill/internal/declaration/models"
	"taxfill/internal/declaration/store"
	"taxfill/internal/declaration/tax"
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
)

// DeclarationStore is the persistence surface the service needs. The totals
// passed to the write methods are denormalized copies of the line-item sums.
type DeclarationStore interface {
	CreateDraft(ctx context.Context, d *models.Declaration, totalIncomes, totalDeductions float64) error
	Update(ctx context.Context, d *models.Declaration, totalIncomes, totalDeductions float64) error
	FindByID(ctx context.Context, declarationID id.DeclarationID) (*models.Declaration, error)
	FindByYear(ctx context.Context, userID id.UserID, year int) ([]*models.Declaration, error)
	Find(ctx context.Context, userID id.UserID, filter store.Filter) ([]*models.Declaration, error)
}

// IncomeInput describes one income line item in a create or update request.
// A nil ID means a fresh line item; a set ID keeps an existing identity.
type IncomeInput struct {
	ID          *id.IncomeID
	Type        models.IncomeType
	Description string
	Amount      float64
}

// DeductionInput describes one deduction line item in a create or update
// request. On update, a set ID matching a current deduction edits that
// deduction in place.
type DeductionInput struct {
	ID          *id.DeductionID
	Type        models.DeductionType
	Description string
	Amount      float64
}

// Service orchestrates the declaration workflows: building aggregates from
// request input, enforcing the one-submitted-per-year rule, computing tax, and
// persisting through the store.
type Service struct {
	declarations DeclarationStore
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(declarations DeclarationStore, opts ...Option) (*Service, error) {
	if declarations == nil {
		return nil, errors.New("declaration store is required")
	}
	s := &Service{declarations: declarations}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ensureNoSubmitted returns a conflict error when the user already has a
// SUBMITTED declaration for the year. It deliberately does not exclude any
// declaration: re-submitting an already submitted declaration conflicts too.
//
// This check alone is a read-then-write race under concurrent requests; the
// store's unique constraint is what actually guarantees the invariant. The
// check exists to give the common sequential case a precise error.
func (s *Service) ensureNoSubmitted(ctx context.Context, userID id.UserID, year int) error {
	existing, err := s.declarations.FindByYear(ctx, userID, year)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing declarations")
	}
	for _, d := range existing {
		if d.Status == models.StatusSubmitted {
			s.metrics.IncrementSubmissionConflict()
			return dErrors.Newf(dErrors.CodeConflict,
				"a declaration for year %d has already been submitted", year)
		}
	}
	return nil
}

// computeTax derives the tax figures from the denormalized totals.
func (s *Service) computeTax(totalIncome, totalDeductions float64) tax.Result {
	start := time.Now()
	result := tax.Compute(totalIncome, totalDeductions)
	s.metrics.ObserveComputeLatency(time.Since(start))
	return result
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

// asBadRequest downgrades invariant violations raised by the model
// constructors to bad_request so they surface as client errors.
func asBadRequest(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeBadRequest, err.Error())
	}
	return err
}
