package income

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"taxfill/internal/declaration/models"
	id "taxfill/pkg/domain"
	"taxfill/pkg/platform/tx"
)

// PostgresStore persists income line items in PostgreSQL. Statements join a
// surrounding transaction when the caller put one in context.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed income store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateMany(ctx context.Context, incomes []*models.Income, declarationID id.DeclarationID) error {
	if len(incomes) == 0 {
		return nil
	}
	q := tx.QuerierFrom(ctx, s.db)
	for _, income := range incomes {
		_, err := q.ExecContext(ctx, `
			INSERT INTO incomes (id, declaration_id, type, description, amount)
			VALUES ($1, $2, $3, $4, $5)
		`, income.ID.String(), declarationID.String(), string(income.Type), income.Description, income.Amount)
		if err != nil {
			return fmt.Errorf("insert income: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, income *models.Income, declarationID id.DeclarationID) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		UPDATE incomes
		SET type = $1, description = $2, amount = $3, declaration_id = $4
		WHERE id = $5
	`, string(income.Type), income.Description, income.Amount, declarationID.String(), income.ID.String())
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteMany(ctx context.Context, incomes []*models.Income) error {
	if len(incomes) == 0 {
		return nil
	}
	ids := make([]string, 0, len(incomes))
	for _, income := range incomes {
		ids = append(ids, income.ID.String())
	}
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `DELETE FROM incomes WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("delete incomes: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindManyByDeclarationID(ctx context.Context, declarationID id.DeclarationID) ([]*models.Income, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, declaration_id, type, description, amount
		FROM incomes
		WHERE declaration_id = $1
		ORDER BY created_at, id
	`, declarationID.String())
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []*models.Income
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	return incomes, nil
}

func scanIncome(rows *sql.Rows) (*models.Income, error) {
	var (
		income           models.Income
		rawID, rawDeclID string
		rawType          string
	)
	if err := rows.Scan(&rawID, &rawDeclID, &rawType, &income.Description, &income.Amount); err != nil {
		return nil, fmt.Errorf("scan income: %w", err)
	}
	incomeID, err := id.ParseIncomeID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse income id: %w", err)
	}
	declID, err := id.ParseDeclarationID(rawDeclID)
	if err != nil {
		return nil, fmt.Errorf("parse income declaration id: %w", err)
	}
	income.ID = incomeID
	income.DeclarationID = declID
	income.Type = models.IncomeType(rawType)
	return &income, nil
}
