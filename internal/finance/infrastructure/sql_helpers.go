package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/pagination"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// whereBuilder collects AND-ed conditions with positional arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

func newWhere(first string, arg any) *whereBuilder {
	w := &whereBuilder{}
	w.add(first, arg)
	return w
}

// add appends a condition; "?" in cond is replaced by the next placeholder.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1))
}

func (w *whereBuilder) String() string {
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *whereBuilder) paginate(page pagination.Page) string {
	w.args = append(w.args, page.Limit, page.Skip)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

func rowsAffectedOrNotFound(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// parseTagList reads the comma separated tag ids produced by string_agg.
func parseTagList(raw sql.NullString) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if !raw.Valid || raw.String == "" {
		return ids, nil
	}
	for _, part := range strings.Split(raw.String, ",") {
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("could not parse tag id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// replaceTags rewrites the tag links of one expense or income.
func replaceTags(ctx context.Context, tx execer, table, ownerColumn string, ownerID uuid.UUID, userID string, tagIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, ownerColumn), ownerID); err != nil {
		return fmt.Errorf("could not clear tags: %w", err)
	}
	insert := fmt.Sprintf(`INSERT INTO %s (%s, tag_id, user_id) VALUES ($1, $2, $3)`, table, ownerColumn)
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, insert, ownerID, tagID, userID); err != nil {
			return fmt.Errorf("could not link tag %s: %w", tagID, err)
		}
	}
	return nil
}

func tagListColumn(table, ownerColumn, ownerRef string) string {
	return fmt.Sprintf(`(SELECT string_agg(t.tag_id::text, ',' ORDER BY t.tag_id) FROM %s t WHERE t.%s = %s)`, table, ownerColumn, ownerRef)
}
