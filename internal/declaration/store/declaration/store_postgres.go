package declaration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"taxfill/internal/declaration/models"
	"taxfill/internal/declaration/store"
	id "taxfill/pkg/domain"
	"taxfill/pkg/platform/sentinel"
	"taxfill/pkg/platform/tx"
)

// PostgresStore persists declaration aggregates in PostgreSQL.
//
// The aggregate row and its line-item rows are written in one transaction.
// A partial unique index on (user_id, year) WHERE status = 'SUBMITTED' backs
// the single-submitted-per-year rule; the workflow-level check alone is a
// read-then-write race, so an index violation surfaces as ErrConflict and
// closes it.
type PostgresStore struct {
	db         *sql.DB
	incomes    store.IncomeStore
	deductions store.DeductionStore
}

// NewPostgres constructs a PostgreSQL-backed declaration store driving the
// given line-item stores.
func NewPostgres(db *sql.DB, incomes store.IncomeStore, deductions store.DeductionStore) *PostgresStore {
	return &PostgresStore{db: db, incomes: incomes, deductions: deductions}
}

func (s *PostgresStore) CreateDraft(ctx context.Context, d *models.Declaration, totalIncomes, totalDeductions float64) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create declaration: %w", err)
	}
	defer sqlTx.Rollback() //nolint:errcheck // no-op after commit

	txCtx := tx.With(ctx, sqlTx)

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO declarations
			(id, user_id, year, description, status, tax_due, tax_refund,
			 total_income, total_deductions, original_declaration_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, d.ID.String(), d.UserID.String(), d.Year, d.Description, string(d.Status),
		d.TaxDue, d.TaxRefund, totalIncomes, totalDeductions,
		nullableID(d.OriginalDeclarationID), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert declaration: %w", err)
	}

	if err := s.incomes.CreateMany(txCtx, d.Incomes.Items(), d.ID); err != nil {
		return err
	}
	if err := s.deductions.CreateMany(txCtx, d.Deductions.Items(), d.ID); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("commit create declaration: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, d *models.Declaration, totalIncomes, totalDeductions float64) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update declaration: %w", err)
	}
	defer sqlTx.Rollback() //nolint:errcheck // no-op after commit

	txCtx := tx.With(ctx, sqlTx)

	res, err := sqlTx.ExecContext(ctx, `
		UPDATE declarations
		SET year = $1, description = $2, status = $3, tax_due = $4, tax_refund = $5,
		    total_income = $6, total_deductions = $7, updated_at = $8
		WHERE id = $9
	`, d.Year, d.Description, string(d.Status), d.TaxDue, d.TaxRefund,
		totalIncomes, totalDeductions, d.UpdatedAt, d.ID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update declaration: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}

	// The diff views drive the row operations: removed rows are deleted,
	// added rows inserted, and every surviving row updated in place.
	if err := s.deductions.DeleteMany(txCtx, d.Deductions.Removed()); err != nil {
		return err
	}
	if err := s.deductions.CreateMany(txCtx, d.Deductions.Added(), d.ID); err != nil {
		return err
	}
	for _, deduction := range d.Deductions.Items() {
		if err := s.deductions.Update(txCtx, deduction, d.ID); err != nil {
			return err
		}
	}

	if err := s.incomes.DeleteMany(txCtx, d.Incomes.Removed()); err != nil {
		return err
	}
	if err := s.incomes.CreateMany(txCtx, d.Incomes.Added(), d.ID); err != nil {
		return err
	}
	for _, income := range d.Incomes.Items() {
		if err := s.incomes.Update(txCtx, income, d.ID); err != nil {
			return err
		}
	}

	if err := sqlTx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("commit update declaration: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, declarationID id.DeclarationID) (*models.Declaration, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, year, description, status, tax_due, tax_refund,
		       original_declaration_id, created_at, updated_at
		FROM declarations
		WHERE id = $1
	`, declarationID.String())

	d, err := s.scanDeclaration(ctx, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *PostgresStore) FindByYear(ctx context.Context, userID id.UserID, year int) ([]*models.Declaration, error) {
	return s.findWhere(ctx, `WHERE user_id = $1 AND year = $2`, userID.String(), year)
}

func (s *PostgresStore) Find(ctx context.Context, userID id.UserID, filter store.Filter) ([]*models.Declaration, error) {
	where := `WHERE user_id = $1`
	args := []any{userID.String()}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		where += fmt.Sprintf(` AND year = $%d`, len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	return s.findWhere(ctx, where, args...)
}

func (s *PostgresStore) findWhere(ctx context.Context, where string, args ...any) ([]*models.Declaration, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, year, description, status, tax_due, tax_refund,
		       original_declaration_id, created_at, updated_at
		FROM declarations
	`+where+` ORDER BY year DESC, created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list declarations: %w", err)
	}
	defer rows.Close()

	var declarations []*models.Declaration
	for rows.Next() {
		d, err := s.scanDeclaration(ctx, rows)
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list declarations: %w", err)
	}
	return declarations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanDeclaration rebuilds the aggregate from its rows. The tracked
// collections are seeded with the persisted line items, so baseline equals
// current — a freshly loaded aggregate reports no changes.
func (s *PostgresStore) scanDeclaration(ctx context.Context, row rowScanner) (*models.Declaration, error) {
	var (
		d                models.Declaration
		rawID, rawUserID string
		rawStatus        string
		rawOriginal      sql.NullString
	)
	if err := row.Scan(&rawID, &rawUserID, &d.Year, &d.Description, &rawStatus,
		&d.TaxDue, &d.TaxRefund, &rawOriginal, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan declaration: %w", err)
	}

	declID, err := id.ParseDeclarationID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse declaration id: %w", err)
	}
	userID, err := id.ParseUserID(rawUserID)
	if err != nil {
		return nil, fmt.Errorf("parse declaration user id: %w", err)
	}
	d.ID = declID
	d.UserID = userID
	d.Status = models.DeclarationStatus(rawStatus)
	if rawOriginal.Valid {
		originalID, err := id.ParseDeclarationID(rawOriginal.String)
		if err != nil {
			return nil, fmt.Errorf("parse original declaration id: %w", err)
		}
		d.OriginalDeclarationID = &originalID
	}

	incomes, err := s.incomes.FindManyByDeclarationID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	deductions, err := s.deductions.FindManyByDeclarationID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Incomes = models.NewIncomeList(incomes...)
	d.Deductions = models.NewDeductionList(deductions...)
	return &d, nil
}

func nullableID(declarationID *id.DeclarationID) any {
	if declarationID == nil {
		return nil
	}
	return declarationID.String()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
