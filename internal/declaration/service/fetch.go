package service

import (
	"context"
	"errors"

	"taxfill/internal/declaration/models"
	"taxfill/internal/declaration/store"
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
	"taxfill/pkg/platform/sentinel"
)

// Get loads one declaration with its line items. Declarations owned by other
// users read as not found.
func (s *Service) Get(ctx context.Context, userID id.UserID, declarationID id.DeclarationID) (*models.Declaration, error) {
	d, err := s.declarations.FindByID(ctx, declarationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "declaration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load declaration")
	}
	if d.UserID != userID {
		return nil, dErrors.New(dErrors.CodeNotFound, "declaration not found")
	}
	return d, nil
}

// List returns the user's declarations matching the filter, oldest first.
func (s *Service) List(ctx context.Context, userID id.UserID, filter store.Filter) ([]*models.Declaration, error) {
	declarations, err := s.declarations.Find(ctx, userID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list declarations")
	}
	return declarations, nil
}
