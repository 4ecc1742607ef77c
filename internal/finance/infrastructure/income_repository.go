package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type IncomeRepository struct {
	db *sql.DB
}

func NewIncomeRepository(db *sql.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

var incomeSelect = `SELECT i.id, i.user_id, i.amount, i.description, i.source, i.category_id, i.date,
	i.is_recurring, i.recurring_frequency, i.notes, i.created_at, i.updated_at, ` +
	tagListColumn("income_tags", "income_id", "i.id") + `
	FROM incomes i`

func scanIncome(row interface{ Scan(dest ...any) error }) (*domain.Income, error) {
	var i domain.Income
	var tags sql.NullString
	err := row.Scan(&i.ID, &i.UserID, &i.Amount, &i.Description, &i.Source, &i.CategoryID, &i.Date,
		&i.IsRecurring, &i.RecurringFrequency, &i.Notes, &i.CreatedAt, &i.UpdatedAt, &tags)
	if err != nil {
		return nil, err
	}
	if i.TagIDs, err = parseTagList(tags); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *IncomeRepository) Create(ctx context.Context, i *domain.Income) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO incomes (id, user_id, amount, description, source, category_id, date,
			is_recurring, recurring_frequency, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		i.ID, i.UserID, i.Amount, i.Description, i.Source, i.CategoryID, i.Date,
		i.IsRecurring, i.RecurringFrequency, i.Notes, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not create income: %w", err)
	}
	if err := replaceTags(ctx, tx, "income_tags", "income_id", i.ID, i.UserID, i.TagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *IncomeRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Income, error) {
	row := r.db.QueryRowContext(ctx, incomeSelect+` WHERE i.id = $1 AND i.user_id = $2`, id, userID)
	income, err := scanIncome(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIncomeNotFound
		}
		return nil, err
	}
	return income, nil
}

func (r *IncomeRepository) List(ctx context.Context, userID string, filter domain.IncomeFilter) ([]domain.Income, error) {
	where := newWhere("i.user_id = ?", userID)
	if filter.Source != nil {
		where.add("i.source = ?", *filter.Source)
	}
	if filter.CategoryID != nil {
		where.add("i.category_id = ?", *filter.CategoryID)
	}
	if filter.TagID != nil {
		where.add("EXISTS (SELECT 1 FROM income_tags it WHERE it.income_id = i.id AND it.tag_id = ?)", *filter.TagID)
	}
	rangeConditions(where, "i.date", filter.Range)

	query := incomeSelect + where.String() + ` ORDER BY i.date DESC, i.id DESC` + where.paginate(filter.Page)
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := []domain.Income{}
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, *income)
	}
	return incomes, rows.Err()
}

func (r *IncomeRepository) Update(ctx context.Context, i *domain.Income) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE incomes
		SET amount = $1, description = $2, source = $3, category_id = $4, date = $5,
			is_recurring = $6, recurring_frequency = $7, notes = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11`,
		i.Amount, i.Description, i.Source, i.CategoryID, i.Date,
		i.IsRecurring, i.RecurringFrequency, i.Notes, i.UpdatedAt, i.ID, i.UserID,
	)
	if err != nil {
		return fmt.Errorf("could not update income: %w", err)
	}
	if err := rowsAffectedOrNotFound(result, domain.ErrIncomeNotFound); err != nil {
		return err
	}
	if err := replaceTags(ctx, tx, "income_tags", "income_id", i.ID, i.UserID, i.TagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *IncomeRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("could not delete income: %w", err)
	}
	return rowsAffectedOrNotFound(result, domain.ErrIncomeNotFound)
}

func (r *IncomeRepository) Summary(ctx context.Context, userID, groupBy string, dateRange domain.DateRange) ([]domain.SummaryRow, error) {
	where := newWhere("i.user_id = ?", userID)
	rangeConditions(where, "i.date", dateRange)

	var query string
	switch groupBy {
	case domain.IncomeGroupBySource:
		query = summaryQuery("incomes", "i", "i.source", "i.source", "", where)
	case domain.IncomeGroupByCategory:
		query = summaryQuery("incomes", "i", "COALESCE(c.id::text, 'none')", "COALESCE(c.name, 'Uncategorized')",
			"LEFT JOIN categories c ON c.id = i.category_id", where)
	case domain.GroupByMonth:
		month := fmt.Sprintf(monthKey, "i")
		query = summaryQuery("incomes", "i", month, month, "", where)
	default:
		return nil, fmt.Errorf("unsupported income grouping %q", groupBy)
	}
	return scanSummary(ctx, r.db, query, where.args)
}
