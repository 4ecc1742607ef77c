package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = `id, user_id, name, description, start_date, end_date, total_budgeted, total_spent, currency, is_active, created_at, updated_at`

const budgetItemSelect = `SELECT bi.id, bi.budget_id, bi.category_id, c.name, bi.budgeted_amount, bi.notes, bi.created_at, bi.updated_at
	FROM budget_items bi
	JOIN categories c ON c.id = bi.category_id`

func scanBudget(row interface{ Scan(dest ...any) error }) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.StartDate, &b.EndDate,
		&b.TotalBudgeted, &b.TotalSpent, &b.Currency, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Items = []domain.BudgetItem{}
	return &b, nil
}

func scanBudgetItem(row interface{ Scan(dest ...any) error }) (*domain.BudgetItem, error) {
	var item domain.BudgetItem
	err := row.Scan(&item.ID, &item.BudgetID, &item.CategoryID, &item.CategoryName,
		&item.BudgetedAmount, &item.Notes, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func insertBudgetItem(ctx context.Context, ex execer, userID string, item *domain.BudgetItem) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO budget_items (id, budget_id, user_id, category_id, budgeted_amount, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.BudgetID, userID, item.CategoryID, item.BudgetedAmount, item.Notes, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not create budget item: %w", err)
	}
	return nil
}

// syncTotalBudgeted recomputes total_budgeted from the stored items.
func syncTotalBudgeted(ctx context.Context, ex execer, budgetID uuid.UUID, userID string) error {
	_, err := ex.ExecContext(ctx,
		`UPDATE budgets
		SET total_budgeted = (SELECT COALESCE(SUM(budgeted_amount), 0) FROM budget_items WHERE budget_id = $1),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("could not update budget total: %w", err)
	}
	return nil
}

func lockBudget(ctx context.Context, tx *sql.Tx, budgetID uuid.UUID, userID string) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM budgets WHERE id = $1 AND user_id = $2 FOR UPDATE`, budgetID, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrBudgetNotFound
	}
	return err
}

func (r *BudgetRepository) Create(ctx context.Context, b *domain.Budget) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.UserID, b.Name, b.Description, b.StartDate, b.EndDate,
		b.TotalBudgeted, b.TotalSpent, b.Currency, b.IsActive, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not create budget: %w", err)
	}

	for i := range b.Items {
		if err := insertBudgetItem(ctx, tx, b.UserID, &b.Items[i]); err != nil {
			return err
		}
	}
	if err := syncTotalBudgeted(ctx, tx, b.ID, b.UserID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *BudgetRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Budget, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}

	if err := r.attachItems(ctx, []*domain.Budget{budget}); err != nil {
		return nil, err
	}
	return budget, nil
}

func (r *BudgetRepository) List(ctx context.Context, userID string, filter domain.BudgetFilter) ([]domain.Budget, error) {
	where := newWhere("user_id = ?", userID)
	if filter.IsActive != nil {
		where.add("is_active = ?", *filter.IsActive)
	}
	query := `SELECT ` + budgetColumns + ` FROM budgets` + where.String() +
		` ORDER BY created_at DESC, id DESC` + where.paginate(filter.Page)
	return r.listBudgets(ctx, query, where.args...)
}

// ListActive returns the active budgets of every user.
func (r *BudgetRepository) ListActive(ctx context.Context) ([]domain.Budget, error) {
	return r.listBudgets(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE is_active = TRUE ORDER BY user_id, start_date`)
}

func (r *BudgetRepository) listBudgets(ctx context.Context, query string, args ...any) ([]domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var budgets []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := r.attachItems(ctx, budgets); err != nil {
		return nil, err
	}

	result := make([]domain.Budget, 0, len(budgets))
	for _, budget := range budgets {
		result = append(result, *budget)
	}
	return result, nil
}

func (r *BudgetRepository) attachItems(ctx context.Context, budgets []*domain.Budget) error {
	if len(budgets) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*domain.Budget, len(budgets))
	ids := make([]uuid.UUID, 0, len(budgets))
	for _, budget := range budgets {
		byID[budget.ID] = budget
		ids = append(ids, budget.ID)
	}

	rows, err := r.db.QueryContext(ctx,
		budgetItemSelect+` WHERE bi.budget_id::text = ANY($1) ORDER BY c.name, bi.id`, uuidStrings(ids))
	if err != nil {
		return fmt.Errorf("could not load budget items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanBudgetItem(rows)
		if err != nil {
			return err
		}
		if budget, ok := byID[item.BudgetID]; ok {
			budget.Items = append(budget.Items, *item)
		}
	}
	return rows.Err()
}

func (r *BudgetRepository) Update(ctx context.Context, b *domain.Budget) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE budgets
		SET name = $1, description = $2, start_date = $3, end_date = $4, currency = $5, is_active = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9`,
		b.Name, b.Description, b.StartDate, b.EndDate, b.Currency, b.IsActive, b.UpdatedAt, b.ID, b.UserID,
	)
	if err != nil {
		return fmt.Errorf("could not update budget: %w", err)
	}
	return rowsAffectedOrNotFound(result, domain.ErrBudgetNotFound)
}

func (r *BudgetRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("could not delete budget: %w", err)
	}
	return rowsAffectedOrNotFound(result, domain.ErrBudgetNotFound)
}

func (r *BudgetRepository) AddItem(ctx context.Context, userID string, item *domain.BudgetItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockBudget(ctx, tx, item.BudgetID, userID); err != nil {
		return err
	}
	if err := insertBudgetItem(ctx, tx, userID, item); err != nil {
		return err
	}
	if err := syncTotalBudgeted(ctx, tx, item.BudgetID, userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *BudgetRepository) FindItem(ctx context.Context, budgetID, itemID uuid.UUID, userID string) (*domain.BudgetItem, error) {
	row := r.db.QueryRowContext(ctx,
		budgetItemSelect+` WHERE bi.id = $1 AND bi.budget_id = $2 AND bi.user_id = $3`, itemID, budgetID, userID)
	item, err := scanBudgetItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBudgetItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *BudgetRepository) UpdateItem(ctx context.Context, userID string, item *domain.BudgetItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockBudget(ctx, tx, item.BudgetID, userID); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx,
		`UPDATE budget_items SET budgeted_amount = $1, notes = $2, updated_at = $3
		WHERE id = $4 AND budget_id = $5 AND user_id = $6`,
		item.BudgetedAmount, item.Notes, item.UpdatedAt, item.ID, item.BudgetID, userID,
	)
	if err != nil {
		return fmt.Errorf("could not update budget item: %w", err)
	}
	if err := rowsAffectedOrNotFound(result, domain.ErrBudgetItemNotFound); err != nil {
		return err
	}
	if err := syncTotalBudgeted(ctx, tx, item.BudgetID, userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *BudgetRepository) DeleteItem(ctx context.Context, budgetID, itemID uuid.UUID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockBudget(ctx, tx, budgetID, userID); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx,
		`DELETE FROM budget_items WHERE id = $1 AND budget_id = $2 AND user_id = $3`, itemID, budgetID, userID)
	if err != nil {
		return fmt.Errorf("could not delete budget item: %w", err)
	}
	if err := rowsAffectedOrNotFound(result, domain.ErrBudgetItemNotFound); err != nil {
		return err
	}
	if err := syncTotalBudgeted(ctx, tx, budgetID, userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *BudgetRepository) UpdateTotalSpent(ctx context.Context, budgetID uuid.UUID, userID string, totalSpent decimal.Decimal) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET total_spent = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		totalSpent, budgetID, userID)
	if err != nil {
		return fmt.Errorf("could not update budget spending: %w", err)
	}
	return rowsAffectedOrNotFound(result, domain.ErrBudgetNotFound)
}
