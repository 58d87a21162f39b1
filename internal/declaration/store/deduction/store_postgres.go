package deduction

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"taxfill/internal/declaration/models"
	id "taxfill/pkg/domain"
	"taxfill/pkg/platform/tx"
)

// PostgresStore persists deduction line items in PostgreSQL. Statements join
// a surrounding transaction when the caller put one in context.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed deduction store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateMany(ctx context.Context, deductions []*models.Deduction, declarationID id.DeclarationID) error {
	if len(deductions) == 0 {
		return nil
	}
	q := tx.QuerierFrom(ctx, s.db)
	for _, deduction := range deductions {
		_, err := q.ExecContext(ctx, `
			INSERT INTO deductions (id, declaration_id, type, description, amount)
			VALUES ($1, $2, $3, $4, $5)
		`, deduction.ID.String(), declarationID.String(), string(deduction.Type), deduction.Description, deduction.Amount)
		if err != nil {
			return fmt.Errorf("insert deduction: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, deduction *models.Deduction, declarationID id.DeclarationID) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		UPDATE deductions
		SET type = $1, description = $2, amount = $3, declaration_id = $4
		WHERE id = $5
	`, string(deduction.Type), deduction.Description, deduction.Amount, declarationID.String(), deduction.ID.String())
	if err != nil {
		return fmt.Errorf("update deduction: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteMany(ctx context.Context, deductions []*models.Deduction) error {
	if len(deductions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(deductions))
	for _, deduction := range deductions {
		ids = append(ids, deduction.ID.String())
	}
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `DELETE FROM deductions WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("delete deductions: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindManyByDeclarationID(ctx context.Context, declarationID id.DeclarationID) ([]*models.Deduction, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, declaration_id, type, description, amount
		FROM deductions
		WHERE declaration_id = $1
		ORDER BY created_at, id
	`, declarationID.String())
	if err != nil {
		return nil, fmt.Errorf("list deductions: %w", err)
	}
	defer rows.Close()

	var deductions []*models.Deduction
	for rows.Next() {
		deduction, err := scanDeduction(rows)
		if err != nil {
			return nil, err
		}
		deductions = append(deductions, deduction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deductions: %w", err)
	}
	return deductions, nil
}

func scanDeduction(rows *sql.Rows) (*models.Deduction, error) {
	var (
		deduction        models.Deduction
		rawID, rawDeclID string
		rawType          string
	)
	if err := rows.Scan(&rawID, &rawDeclID, &rawType, &deduction.Description, &deduction.Amount); err != nil {
		return nil, fmt.Errorf("scan deduction: %w", err)
	}
	deductionID, err := id.ParseDeductionID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse deduction id: %w", err)
	}
	declID, err := id.ParseDeclarationID(rawDeclID)
	if err != nil {
		return nil, fmt.Errorf("parse deduction declaration id: %w", err)
	}
	deduction.ID = deductionID
	deduction.DeclarationID = declID
	deduction.Type = models.DeductionType(rawType)
	return &deduction, nil
}
