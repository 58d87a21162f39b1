package dependent

import (
	"context"
	"database/sql"
	"fmt"

	"taxfill/internal/dependent/models"
	id "taxfill/pkg/domain"
)

// PostgresStore persists dependents in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, dependent *models.Dependent) error {
	query := `
		INSERT INTO dependents (id, user_id, name, birth_date, relationship, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		dependent.ID.String(), dependent.UserID.String(), dependent.Name,
		dependent.BirthDate, string(dependent.Relationship), dependent.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert dependent: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindManyByUserID(ctx context.Context, userID id.UserID) ([]*models.Dependent, error) {
	query := `
		SELECT id, user_id, name, birth_date, relationship, created_at
		FROM dependents
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("find dependents: %w", err)
	}
	defer rows.Close()

	var dependents []*models.Dependent
	for rows.Next() {
		var d models.Dependent
		var rawID, rawUserID, rawRelationship string
		if err := rows.Scan(&rawID, &rawUserID, &d.Name, &d.BirthDate, &rawRelationship, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dependent: %w", err)
		}
		if d.ID, err = id.ParseDependentID(rawID); err != nil {
			return nil, fmt.Errorf("parse dependent id: %w", err)
		}
		if d.UserID, err = id.ParseUserID(rawUserID); err != nil {
			return nil, fmt.Errorf("parse user id: %w", err)
		}
		d.Relationship = models.Relationship(rawRelationship)
		dependents = append(dependents, &d)
	}
	return dependents, rows.Err()
}
