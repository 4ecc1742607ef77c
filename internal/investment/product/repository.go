package products

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

// Product is a bank account, card, loan line or any other product held at
// an institution.
type Product struct {
	ID              uuid.UUID           `json:"id"`
	UserID          string              `json:"user_id"`
	Name            string              `json:"name"`
	ProductType     string              `json:"product_type"`
	Institution     string              `json:"institution"`
	AccountNumber   *string             `json:"account_number"`
	Balance         decimal.Decimal     `json:"balance"`
	InterestRate    decimal.NullDecimal `json:"interest_rate"`
	MinimumBalance  decimal.NullDecimal `json:"minimum_balance"`
	MonthlyFee      decimal.NullDecimal `json:"monthly_fee"`
	CreditLimit     decimal.NullDecimal `json:"credit_limit"`
	AvailableCredit decimal.NullDecimal `json:"available_credit"`
	PaymentDueDate  *int                `json:"payment_due_date"`
	MinimumPayment  decimal.NullDecimal `json:"minimum_payment"`
	IsActive        bool                `json:"is_active"`
	OpeningDate     *time.Time          `json:"opening_date"`
	MaturityDate    *time.Time          `json:"maturity_date"`
	Currency        string              `json:"currency"`
	Notes           *string             `json:"notes"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type Filter struct {
	ProductType *string
	Institution *string
	IsActive    *bool
	Page        pagination.Page
}

type SummaryRow struct {
	Key          string          `json:"key"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	Count        int             `json:"count"`
}

type Balance struct {
	TotalBalance decimal.Decimal `json:"total_balance"`
	Currency     string          `json:"currency"`
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*Product, error)
	List(ctx context.Context, userID string, filter Filter) ([]Product, error)
	Update(ctx context.Context, product *Product) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) (int64, error)
	Summary(ctx context.Context, userID, groupBy string) ([]SummaryRow, error)
	BalanceByCurrency(ctx context.Context, userID string) ([]Balance, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, user_id, name, product_type, institution, account_number, balance, interest_rate,
	minimum_balance, monthly_fee, credit_limit, available_credit, payment_due_date, minimum_payment, is_active,
	opening_date, maturity_date, currency, notes, created_at, updated_at`

// groupColumns whitelists the columns a summary may group by.
var groupColumns = map[string]string{
	GroupByProductType: "product_type",
	GroupByInstitution: "institution",
}

func scanProduct(row interface{ Scan(dest ...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.ProductType, &p.Institution, &p.AccountNumber, &p.Balance,
		&p.InterestRate, &p.MinimumBalance, &p.MonthlyFee, &p.CreditLimit, &p.AvailableCredit, &p.PaymentDueDate,
		&p.MinimumPayment, &p.IsActive, &p.OpeningDate, &p.MaturityDate, &p.Currency, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Currency = strings.TrimSpace(p.Currency)
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *Product) error {
	query := `INSERT INTO financial_products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Name, p.ProductType, p.Institution, p.AccountNumber, p.Balance, p.InterestRate,
		p.MinimumBalance, p.MonthlyFee, p.CreditLimit, p.AvailableCredit, p.PaymentDueDate, p.MinimumPayment,
		p.IsActive, p.OpeningDate, p.MaturityDate, p.Currency, p.Notes, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not create financial product: %w", err)
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM financial_products WHERE id = $1 AND user_id = $2`
	return scanProduct(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *productRepository) List(ctx context.Context, userID string, filter Filter) ([]Product, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}
	if filter.ProductType != nil {
		args = append(args, *filter.ProductType)
		conditions = append(conditions, fmt.Sprintf("product_type = $%d", len(args)))
	}
	if filter.Institution != nil {
		args = append(args, *filter.Institution)
		conditions = append(conditions, fmt.Sprintf("institution = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	args = append(args, filter.Page.Limit, filter.Page.Skip)

	query := fmt.Sprintf(`SELECT %s FROM financial_products WHERE %s
		ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		productColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func (r *productRepository) Update(ctx context.Context, p *Product) (int64, error) {
	query := `
		UPDATE financial_products
		SET name = $1, product_type = $2, institution = $3, account_number = $4, balance = $5, interest_rate = $6,
			minimum_balance = $7, monthly_fee = $8, credit_limit = $9, available_credit = $10, payment_due_date = $11,
			minimum_payment = $12, is_active = $13, opening_date = $14, maturity_date = $15, currency = $16,
			notes = $17, updated_at = $18
		WHERE id = $19 AND user_id = $20
	`
	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.ProductType, p.Institution, p.AccountNumber, p.Balance, p.InterestRate, p.MinimumBalance,
		p.MonthlyFee, p.CreditLimit, p.AvailableCredit, p.PaymentDueDate, p.MinimumPayment, p.IsActive,
		p.OpeningDate, p.MaturityDate, p.Currency, p.Notes, p.UpdatedAt, p.ID, p.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM financial_products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *productRepository) Summary(ctx context.Context, userID, groupBy string) ([]SummaryRow, error) {
	column, ok := groupColumns[groupBy]
	if !ok {
		return nil, fmt.Errorf("unsupported summary grouping %q", groupBy)
	}
	query := fmt.Sprintf(`
		SELECT %[1]s, SUM(balance), COUNT(*)
		FROM financial_products
		WHERE user_id = $1 AND is_active = TRUE
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

func (r *productRepository) BalanceByCurrency(ctx context.Context, userID string) ([]Balance, error) {
	query := `
		SELECT TRIM(currency), SUM(balance)
		FROM financial_products
		WHERE user_id = $1 AND is_active = TRUE
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
		if err := rows.Scan(&b.Currency, &b.TotalBalance); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
