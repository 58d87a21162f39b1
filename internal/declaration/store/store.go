// Package store declares the persistence seams of the declaration domain.
//
// The declaration store owns the aggregate row and drives its line-item
// stores from the tracked collections' diff views: Removed() becomes deletes,
// Added() becomes inserts, and Items() becomes per-row updates. Workflows
// never talk to the line-item stores directly.
package store

import (
	"context"

	"taxfill/internal/declaration/models"
	id "taxfill/pkg/domain"
)

// Filter narrows a declaration listing. Nil fields match everything.
type Filter struct {
	Year   *int
	Status *models.DeclarationStatus
}

// IncomeStore persists income line items.
type IncomeStore interface {
	CreateMany(ctx context.Context, incomes []*models.Income, declarationID id.DeclarationID) error
	Update(ctx context.Context, income *models.Income, declarationID id.DeclarationID) error
	DeleteMany(ctx context.Context, incomes []*models.Income) error
	FindManyByDeclarationID(ctx context.Context, declarationID id.DeclarationID) ([]*models.Income, error)
}

// DeductionStore persists deduction line items.
type DeductionStore interface {
	CreateMany(ctx context.Context, deductions []*models.Deduction, declarationID id.DeclarationID) error
	Update(ctx context.Context, deduction *models.Deduction, declarationID id.DeclarationID) error
	DeleteMany(ctx context.Context, deductions []*models.Deduction) error
	FindManyByDeclarationID(ctx context.Context, declarationID id.DeclarationID) ([]*models.Deduction, error)
}
