// Package store defines the persistence interfaces of the auth module.
package store

import (
	"context"

	"taxfill/internal/auth/models"
	id "taxfill/pkg/domain"
)

// UserStore persists users. Create returns sentinel.ErrConflict when the
// normalized email is already taken; lookups return sentinel.ErrNotFound.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
