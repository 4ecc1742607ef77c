package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

var expenseSelect = `SELECT e.id, e.user_id, e.amount, e.description, e.category_id, e.payment_method_id, e.date,
	e.is_recurring, e.recurring_frequency, e.notes, e.created_at, e.updated_at, ` +
	tagListColumn("expense_tags", "expense_id", "e.id") + `
	FROM expenses e`

func scanExpense(row interface{ Scan(dest ...any) error }) (*domain.Expense, error) {
	var e domain.Expense
	var tags sql.NullString
	err := row.Scan(&e.ID, &e.UserID, &e.Amount, &e.Description, &e.CategoryID, &e.PaymentMethodID, &e.Date,
		&e.IsRecurring, &e.RecurringFrequency, &e.Notes, &e.CreatedAt, &e.UpdatedAt, &tags)
	if err != nil {
		return nil, err
	}
	if e.TagIDs, err = parseTagList(tags); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, amount, description, category_id, payment_method_id, date,
			is_recurring, recurring_frequency, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.UserID, e.Amount, e.Description, e.CategoryID, e.PaymentMethodID, e.Date,
		e.IsRecurring, e.RecurringFrequency, e.Notes, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not create expense: %w", err)
	}
	if err := replaceTags(ctx, tx, "expense_tags", "expense_id", e.ID, e.UserID, e.TagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx, expenseSelect+` WHERE e.id = $1 AND e.user_id = $2`, id, userID)
	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (r *ExpenseRepository) List(ctx context.Context, userID string, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	where := newWhere("e.user_id = ?", userID)
	if filter.CategoryID != nil {
		where.add("e.category_id = ?", *filter.CategoryID)
	}
	if filter.PaymentMethodID != nil {
		where.add("e.payment_method_id = ?", *filter.PaymentMethodID)
	}
	if filter.TagID != nil {
		where.add("EXISTS (SELECT 1 FROM expense_tags et WHERE et.expense_id = e.id AND et.tag_id = ?)", *filter.TagID)
	}
	rangeConditions(where, "e.date", filter.Range)

	query := expenseSelect + where.String() + ` ORDER BY e.date DESC, e.id DESC` + where.paginate(filter.Page)
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE expenses
		SET amount = $1, description = $2, category_id = $3, payment_method_id = $4, date = $5,
			is_recurring = $6, recurring_frequency = $7, notes = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11`,
		e.Amount, e.Description, e.CategoryID, e.PaymentMethodID, e.Date,
		e.IsRecurring, e.RecurringFrequency, e.Notes, e.UpdatedAt, e.ID, e.UserID,
	)
	if err != nil {
		return fmt.Errorf("could not update expense: %w", err)
	}
	if err := rowsAffectedOrNotFound(result, domain.ErrExpenseNotFound); err != nil {
		return err
	}
	if err := replaceTags(ctx, tx, "expense_tags", "expense_id", e.ID, e.UserID, e.TagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ExpenseRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("could not delete expense: %w", err)
	}
	return rowsAffectedOrNotFound(result, domain.ErrExpenseNotFound)
}

func (r *ExpenseRepository) Summary(ctx context.Context, userID, groupBy string, dateRange domain.DateRange) ([]domain.SummaryRow, error) {
	where := newWhere("e.user_id = ?", userID)
	rangeConditions(where, "e.date", dateRange)

	var query string
	switch groupBy {
	case domain.ExpenseGroupByCategory:
		query = summaryQuery("expenses", "e", "c.id::text", "c.name",
			"JOIN categories c ON c.id = e.category_id", where)
	case domain.ExpenseGroupByPaymentMethod:
		query = summaryQuery("expenses", "e", "COALESCE(pm.id::text, 'none')", "COALESCE(pm.name, 'Unassigned')",
			"LEFT JOIN payment_methods pm ON pm.id = e.payment_method_id", where)
	case domain.GroupByMonth:
		month := fmt.Sprintf(monthKey, "e")
		query = summaryQuery("expenses", "e", month, month, "", where)
	default:
		return nil, fmt.Errorf("unsupported expense grouping %q", groupBy)
	}
	return scanSummary(ctx, r.db, query, where.args)
}

// SpentByCategory totals expenses per category within [from, to).
func (r *ExpenseRepository) SpentByCategory(ctx context.Context, userID string, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, SUM(amount) FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date < $3
		GROUP BY category_id`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spent := make(map[uuid.UUID]decimal.Decimal)
	for rows.Next() {
		var categoryID uuid.UUID
		var total decimal.Decimal
		if err := rows.Scan(&categoryID, &total); err != nil {
			return nil, err
		}
		spent[categoryID] = total
	}
	return spent, rows.Err()
}
