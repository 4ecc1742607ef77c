package infrastructure

import (
	"context"
	"database/sql"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

// summaryQuery builds a grouped total over table, where keyExpr and labelExpr
// pick the group and joins supplies any lookups they need.
func summaryQuery(table, alias, keyExpr, labelExpr, joins string, where *whereBuilder) string {
	return `SELECT ` + keyExpr + ` AS key, ` + labelExpr + ` AS label, SUM(` + alias + `.amount), COUNT(*)
		FROM ` + table + ` ` + alias + ` ` + joins + where.String() + `
		GROUP BY 1, 2
		ORDER BY 3 DESC, 1`
}

func rangeConditions(where *whereBuilder, column string, dateRange domain.DateRange) {
	if dateRange.Start != nil {
		where.add(column+" >= ?", *dateRange.Start)
	}
	if end := dateRange.EndExclusive(); end != nil {
		where.add(column+" < ?", *end)
	}
}

func scanSummary(ctx context.Context, db *sql.DB, query string, args []any) ([]domain.SummaryRow, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := []domain.SummaryRow{}
	for rows.Next() {
		var row domain.SummaryRow
		if err := rows.Scan(&row.Key, &row.Label, &row.TotalAmount, &row.Count); err != nil {
			return nil, err
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}

const monthKey = `to_char(date_trunc('month', %s.date), 'YYYY-MM')`
