package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/sebuszqo/FinanceLedger/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereBuilder_NumbersPlaceholders(t *testing.T) {
	categoryID := uuid.New()
	where := newWhere("e.user_id = ?", "user-1")
	where.add("e.category_id = ?", categoryID)
	where.add("e.description ILIKE ?", "%coffee%")

	assert.Equal(t, " WHERE e.user_id = $1 AND e.category_id = $2 AND e.description ILIKE $3", where.String())

	limit := where.paginate(pagination.Page{Skip: 20, Limit: 10})
	assert.Equal(t, " LIMIT $4 OFFSET $5", limit)
	assert.Equal(t, []any{"user-1", categoryID, "%coffee%", 10, 20}, where.args)
}

func TestRangeConditions(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	where := newWhere("i.user_id = ?", "user-1")
	rangeConditions(where, "i.date", domain.DateRange{Start: &start, End: &end})
	assert.Equal(t, " WHERE i.user_id = $1 AND i.date >= $2 AND i.date < $3", where.String())
	assert.Equal(t, []any{"user-1", start, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}, where.args)

	open := newWhere("i.user_id = ?", "user-1")
	rangeConditions(open, "i.date", domain.DateRange{})
	assert.Equal(t, " WHERE i.user_id = $1", open.String())
}

func TestSummaryQuery(t *testing.T) {
	where := newWhere("e.user_id = ?", "user-1")
	query := summaryQuery("expenses", "e", "c.id::text", "c.name", "JOIN categories c ON c.id = e.category_id", where)

	assert.Contains(t, query, "SELECT c.id::text AS key, c.name AS label, SUM(e.amount), COUNT(*)")
	assert.Contains(t, query, "FROM expenses e JOIN categories c ON c.id = e.category_id WHERE e.user_id = $1")
	assert.Contains(t, query, "GROUP BY 1, 2")
	assert.Contains(t, query, "ORDER BY 3 DESC, 1", "ties fall back to the group key")
}

func TestParseTagList(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := parseTagList(sql.NullString{})
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	ids, err = parseTagList(sql.NullString{String: a.String() + "," + b.String(), Valid: true})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	_, err = parseTagList(sql.NullString{String: a.String() + ",nope", Valid: true})
	assert.ErrorContains(t, err, `could not parse tag id "nope"`)
}

func TestTagListColumn(t *testing.T) {
	assert.Equal(t,
		`(SELECT string_agg(t.tag_id::text, ',' ORDER BY t.tag_id) FROM expense_tags t WHERE t.expense_id = e.id)`,
		tagListColumn("expense_tags", "expense_id", "e.id"))
}

type recordedExec struct {
	query string
	args  []any
}

type mockExecer struct {
	calls  []recordedExec
	failOn int
}

func (m *mockExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	m.calls = append(m.calls, recordedExec{query: query, args: args})
	if m.failOn > 0 && len(m.calls) == m.failOn {
		return nil, errors.New("connection reset")
	}
	return driverResult(1), nil
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, nil }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

func TestReplaceTags(t *testing.T) {
	owner := uuid.New()
	tagA, tagB := uuid.New(), uuid.New()
	tx := &mockExecer{}

	require.NoError(t, replaceTags(context.Background(), tx, "income_tags", "income_id", owner, "user-1", []uuid.UUID{tagA, tagB}))
	require.Len(t, tx.calls, 3)
	assert.Equal(t, "DELETE FROM income_tags WHERE income_id = $1", tx.calls[0].query)
	assert.Equal(t, []any{owner}, tx.calls[0].args)
	assert.Equal(t, "INSERT INTO income_tags (income_id, tag_id, user_id) VALUES ($1, $2, $3)", tx.calls[1].query)
	assert.Equal(t, []any{owner, tagB, "user-1"}, tx.calls[2].args)

	failing := &mockExecer{failOn: 2}
	err := replaceTags(context.Background(), failing, "income_tags", "income_id", owner, "user-1", []uuid.UUID{tagA, tagB})
	assert.ErrorContains(t, err, "could not link tag "+tagA.String())
	assert.Len(t, failing.calls, 2)
}

func TestRowsAffectedOrNotFound(t *testing.T) {
	assert.NoError(t, rowsAffectedOrNotFound(driverResult(1), domain.ErrExpenseNotFound))
	assert.ErrorIs(t, rowsAffectedOrNotFound(driverResult(0), domain.ErrExpenseNotFound), domain.ErrExpenseNotFound)
}
