// Package store defines the persistence interface of the dependent module.
package store

import (
	"context"

	"taxfill/internal/dependent/models"
	id "taxfill/pkg/domain"
)

// DependentStore persists dependents.
type DependentStore interface {
	Create(ctx context.Context, dependent *models.Dependent) error
	FindManyByUserID(ctx context.Context, userID id.UserID) ([]*models.Dependent, error)
}
