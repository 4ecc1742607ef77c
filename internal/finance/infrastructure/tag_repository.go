package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

const tagColumns = `id, user_id, name, description, color, icon, is_active, created_at, updated_at`

func scanTag(row interface{ Scan(dest ...any) error }, extra ...any) (*domain.Tag, error) {
	var t domain.Tag
	dest := append([]any{&t.ID, &t.UserID, &t.Name, &t.Description, &t.Color, &t.Icon, &t.IsActive, &t.CreatedAt, &t.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagRepository) Create(ctx context.Context, t *domain.Tag) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (`+tagColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.UserID, t.Name, t.Description, t.Color, t.Icon, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not create tag: %w", err)
	}
	return nil
}

func (r *TagRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Tag, error) {
	tag, err := scanTag(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (r *TagRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Tag, error) {
	return r.findOne(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *TagRepository) FindByName(ctx context.Context, userID, name string) (*domain.Tag, error) {
	return r.findOne(ctx, `SELECT `+tagColumns+` FROM tags WHERE user_id = $1 AND name = $2`, userID, name)
}

func (r *TagRepository) List(ctx context.Context, userID string) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE user_id = $1 AND is_active = TRUE ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, rows.Err()
}

func (r *TagRepository) ListWithUsage(ctx context.Context, userID string) ([]domain.TagWithUsage, error) {
	query := `
		SELECT ` + tagColumns + `,
			(SELECT COUNT(*) FROM expense_tags et WHERE et.tag_id = tags.id),
			(SELECT COUNT(*) FROM income_tags it WHERE it.tag_id = tags.id)
		FROM tags
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []domain.TagWithUsage{}
	for rows.Next() {
		var expenseCount, incomeCount int
		tag, err := scanTag(rows, &expenseCount, &incomeCount)
		if err != nil {
			return nil, err
		}
		tags = append(tags, domain.TagWithUsage{Tag: *tag, ExpenseCount: expenseCount, IncomeCount: incomeCount})
	}
	return tags, rows.Err()
}

func (r *TagRepository) Update(ctx context.Context, t *domain.Tag) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = $1, description = $2, color = $3, icon = $4, is_active = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8`,
		t.Name, t.Description, t.Color, t.Icon, t.IsActive, t.UpdatedAt, t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("could not update tag: %w", err)
	}
	return rowsAffectedOrNotFound(result, domain.ErrTagNotFound)
}

func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("could not delete tag: %w", err)
	}
	return rowsAffectedOrNotFound(result, domain.ErrTagNotFound)
}

func (r *TagRepository) IsInUse(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM expense_tags WHERE tag_id = $1 AND user_id = $2)
		OR EXISTS(SELECT 1 FROM income_tags WHERE tag_id = $1 AND user_id = $2)`
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&exists)
	return exists, err
}

// CountOwned counts how many of ids are tags of the user.
func (r *TagRepository) CountOwned(ctx context.Context, ids []uuid.UUID, userID string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int
	query := `SELECT COUNT(*) FROM tags WHERE user_id = $1 AND id::text = ANY($2)`
	err := r.db.QueryRowContext(ctx, query, userID, uuidStrings(ids)).Scan(&count)
	return count, err
}
