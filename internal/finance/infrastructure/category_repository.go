package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, user_id, name, description, color, icon, category_type, parent_id, is_active, is_default, created_at, updated_at`

func scanCategory(row interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.CategoryType,
		&c.ParentID, &c.IsActive, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func insertCategory(ctx context.Context, ex execer, c *domain.Category) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.UserID, c.Name, c.Description, c.Color, c.Icon, c.CategoryType, c.ParentID,
		c.IsActive, c.IsDefault, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := insertCategory(ctx, r.db, category); err != nil {
		return fmt.Errorf("could not create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) CreateMany(ctx context.Context, categories []domain.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range categories {
		if err := insertCategory(ctx, tx, &categories[i]); err != nil {
			return fmt.Errorf("could not create category %q: %w", categories[i].Name, err)
		}
	}
	return tx.Commit()
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) List(ctx context.Context, userID, categoryType string) ([]domain.Category, error) {
	where := newWhere("user_id = ?", userID)
	if categoryType != "" {
		where.add("category_type = ?", categoryType)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories`+where.String()+` ORDER BY category_type, name`, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories
		SET name = $1, description = $2, color = $3, icon = $4, category_type = $5, parent_id = $6, is_active = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10`,
		c.Name, c.Description, c.Color, c.Icon, c.CategoryType, c.ParentID, c.IsActive, c.UpdatedAt, c.ID, c.UserID,
	)
	if err != nil {
		return fmt.Errorf("could not update category: %w", err)
	}
	return rowsAffectedOrNotFound(result, domain.ErrCategoryNotFound)
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("could not delete category: %w", err)
	}
	return rowsAffectedOrNotFound(result, domain.ErrCategoryNotFound)
}

func (r *CategoryRepository) HasSubcategories(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM categories WHERE parent_id = $1 AND user_id = $2)"
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&exists)
	return exists, err
}

func (r *CategoryRepository) IsInUse(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM expenses WHERE category_id = $1 AND user_id = $2)
		OR EXISTS(SELECT 1 FROM incomes WHERE category_id = $1 AND user_id = $2)
		OR EXISTS(SELECT 1 FROM budget_items WHERE category_id = $1 AND user_id = $2)`
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&exists)
	return exists, err
}

func (r *CategoryRepository) Exists(ctx context.Context, id uuid.UUID, userID, categoryType string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND user_id = $2 AND category_type = $3)"
	err := r.db.QueryRowContext(ctx, query, id, userID, categoryType).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
