package debts

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/pagination"
	"github.com/shopspring/decimal"
)

type Debt struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"user_id"`
	Name            string          `json:"name"`
	DebtType        string          `json:"debt_type"`
	Lender          string          `json:"lender"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	MinimumPayment  decimal.Decimal `json:"minimum_payment"`
	PaymentDueDate  *int            `json:"payment_due_date"`
	LoanStartDate   time.Time       `json:"loan_start_date"`
	ExpectedEndDate *time.Time      `json:"expected_end_date"`
	IsPaidOff       bool            `json:"is_paid_off"`
	PaidOffDate     *time.Time      `json:"paid_off_date"`
	Currency        string          `json:"currency"`
	Collateral      *string         `json:"collateral"`
	Notes           *string         `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Filter struct {
	DebtType  *string
	Lender    *string
	IsPaidOff *bool
	Page      pagination.Page
}

type SummaryRow struct {
	Key          string          `json:"key"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	Count        int             `json:"count"`
}

type Balance struct {
	TotalDebt decimal.Decimal `json:"total_debt"`
	Currency  string          `json:"currency"`
}

// UpcomingPayment is an unpaid debt with a monthly due day, together with
// its owner's contact details.
type UpcomingPayment struct {
	UserID         string
	Email          string
	UserName       string
	DebtName       string
	Lender         string
	MinimumPayment decimal.Decimal
	Currency       string
	DueDay         int
}

type DebtRepository interface {
	Create(ctx context.Context, debt *Debt) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*Debt, error)
	List(ctx context.Context, userID string, filter Filter) ([]Debt, error)
	Update(ctx context.Context, debt *Debt) (int64, error)
	// PayOff settles an unpaid debt; it reports 0 rows when the debt is
	// missing or already settled.
	PayOff(ctx context.Context, id uuid.UUID, userID string, paidOn time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) (int64, error)
	Summary(ctx context.Context, userID, groupBy string) ([]SummaryRow, error)
	BalanceByCurrency(ctx context.Context, userID string) ([]Balance, error)
	UpcomingPayments(ctx context.Context) ([]UpcomingPayment, error)
}

type debtRepository struct {
	db *sql.DB
}

func NewDebtRepository(db *sql.DB) DebtRepository {
	return &debtRepository{db: db}
}

const debtColumns = `id, user_id, name, debt_type, lender, original_amount, current_balance, interest_rate,
	minimum_payment, payment_due_date, loan_start_date, expected_end_date, is_paid_off, paid_off_date, currency,
	collateral, notes, created_at, updated_at`

var groupColumns = map[string]string{
	GroupByDebtType: "debt_type",
	GroupByLender:   "lender",
}

func scanDebt(row interface{ Scan(dest ...any) error }) (*Debt, error) {
	var d Debt
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.DebtType, &d.Lender, &d.OriginalAmount, &d.CurrentBalance,
		&d.InterestRate, &d.MinimumPayment, &d.PaymentDueDate, &d.LoanStartDate, &d.ExpectedEndDate, &d.IsPaidOff,
		&d.PaidOffDate, &d.Currency, &d.Collateral, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Currency = strings.TrimSpace(d.Currency)
	return &d, nil
}

func (r *debtRepository) Create(ctx context.Context, d *Debt) error {
	query := `INSERT INTO debts (` + debtColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.UserID, d.Name, d.DebtType, d.Lender, d.OriginalAmount, d.CurrentBalance, d.InterestRate,
		d.MinimumPayment, d.PaymentDueDate, d.LoanStartDate, d.ExpectedEndDate, d.IsPaidOff, d.PaidOffDate,
		d.Currency, d.Collateral, d.Notes, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not create debt: %w", err)
	}
	return nil
}

func (r *debtRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE id = $1 AND user_id = $2`
	return scanDebt(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *debtRepository) List(ctx context.Context, userID string, filter Filter) ([]Debt, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}
	if filter.DebtType != nil {
		args = append(args, *filter.DebtType)
		conditions = append(conditions, fmt.Sprintf("debt_type = $%d", len(args)))
	}
	if filter.Lender != nil {
		args = append(args, *filter.Lender)
		conditions = append(conditions, fmt.Sprintf("lender = $%d", len(args)))
	}
	if filter.IsPaidOff != nil {
		args = append(args, *filter.IsPaidOff)
		conditions = append(conditions, fmt.Sprintf("is_paid_off = $%d", len(args)))
	}
	args = append(args, filter.Page.Limit, filter.Page.Skip)

	query := fmt.Sprintf(`SELECT %s FROM debts WHERE %s
		ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		debtColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts := []Debt{}
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, *debt)
	}
	return debts, rows.Err()
}

func (r *debtRepository) Update(ctx context.Context, d *Debt) (int64, error) {
	query := `
		UPDATE debts
		SET name = $1, debt_type = $2, lender = $3, original_amount = $4, current_balance = $5,
			interest_rate = $6, minimum_payment = $7, payment_due_date = $8, loan_start_date = $9,
			expected_end_date = $10, is_paid_off = $11, paid_off_date = $12, currency = $13, collateral = $14,
			notes = $15, updated_at = $16
		WHERE id = $17 AND user_id = $18
	`
	result, err := r.db.ExecContext(ctx, query,
		d.Name, d.DebtType, d.Lender, d.OriginalAmount, d.CurrentBalance, d.InterestRate, d.MinimumPayment,
		d.PaymentDueDate, d.LoanStartDate, d.ExpectedEndDate, d.IsPaidOff, d.PaidOffDate, d.Currency,
		d.Collateral, d.Notes, d.UpdatedAt, d.ID, d.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *debtRepository) PayOff(ctx context.Context, id uuid.UUID, userID string, paidOn time.Time) (int64, error) {
	query := `
		UPDATE debts
		SET is_paid_off = TRUE, paid_off_date = $1, current_balance = 0, updated_at = $1
		WHERE id = $2 AND user_id = $3 AND is_paid_off = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, paidOn, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *debtRepository) Delete(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *debtRepository) Summary(ctx context.Context, userID, groupBy string) ([]SummaryRow, error) {
	column, ok := groupColumns[groupBy]
	if !ok {
		return nil, fmt.Errorf("unsupported summary grouping %q", groupBy)
	}
	query := fmt.Sprintf(`
		SELECT %[1]s, SUM(current_balance), COUNT(*)
		FROM debts
		WHERE user_id = $1 AND is_paid_off = FALSE
		GROUP BY %[1]s
		ORDER BY 2 DESC, %[1]s
	`, column)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := []SummaryRow{}
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.Key, &row.TotalBalance, &row.Count); err != nil {
			return nil, err
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}

func (r *debtRepository) BalanceByCurrency(ctx context.Context, userID string) ([]Balance, error) {
	query := `
		SELECT TRIM(currency), SUM(current_balance)
		FROM debts
		WHERE user_id = $1 AND is_paid_off = FALSE
		GROUP BY 1
		ORDER BY 1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := []Balance{}
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.Currency, &b.TotalDebt); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *debtRepository) UpcomingPayments(ctx context.Context) ([]UpcomingPayment, error) {
	query := `
		SELECT u.id, u.email, COALESCE(NULLIF(u.full_name, ''), u.username),
			d.name, d.lender, d.minimum_payment, TRIM(d.currency), d.payment_due_date
		FROM debts d
		JOIN users u ON u.id = d.user_id
		WHERE d.is_paid_off = FALSE AND d.payment_due_date IS NOT NULL AND u.is_active = TRUE
		ORDER BY u.id, d.payment_due_date, d.name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []UpcomingPayment
	for rows.Next() {
		var p UpcomingPayment
		if err := rows.Scan(&p.UserID, &p.Email, &p.UserName, &p.DebtName, &p.Lender, &p.MinimumPayment,
			&p.Currency, &p.DueDay); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
