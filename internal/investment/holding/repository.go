package holdings

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

type Investment struct {
	ID              uuid.UUID           `json:"id"`
	UserID          string              `json:"user_id"`
	Name            string              `json:"name"`
	Symbol          *string             `json:"symbol"`
	InvestmentType  string              `json:"investment_type"`
	AmountInvested  decimal.Decimal     `json:"amount_invested"`
	CurrentValue    decimal.NullDecimal `json:"current_value"`
	PurchaseDate    time.Time           `json:"purchase_date"`
	Quantity        decimal.NullDecimal `json:"quantity"`
	PurchasePrice   decimal.NullDecimal `json:"purchase_price"`
	CurrentPrice    decimal.NullDecimal `json:"current_price"`
	BrokerPlatform  *string             `json:"broker_platform"`
	Fees            decimal.Decimal     `json:"fees"`
	Taxes           decimal.Decimal     `json:"taxes"`
	DividendsEarned decimal.Decimal     `json:"dividends_earned"`
	IsActive        bool                `json:"is_active"`
	MaturityDate    *time.Time          `json:"maturity_date"`
	RiskLevel       *string             `json:"risk_level"`
	Sector          *string             `json:"sector"`
	Notes           *string             `json:"notes"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type Filter struct {
	InvestmentType *string
	IsActive       *bool
	Page           pagination.Page
}

type TypeSummary struct {
	InvestmentType    string          `json:"investment_type"`
	TotalInvested     decimal.Decimal `json:"total_invested"`
	TotalCurrentValue decimal.Decimal `json:"total_current_value"`
	Count             int             `json:"count"`
}

// Position is an active investment whose value follows a market quote.
type Position struct {
	ID       uuid.UUID
	Symbol   string
	Quantity decimal.Decimal
}

type InvestmentRepository interface {
	Create(ctx context.Context, investment *Investment) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*Investment, error)
	List(ctx context.Context, userID string, filter Filter) ([]Investment, error)
	Update(ctx context.Context, investment *Investment) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) (int64, error)
	SummaryByType(ctx context.Context, userID string) ([]TypeSummary, error)
	ActiveTotals(ctx context.Context, userID string) (invested, current decimal.Decimal, err error)
	ListPositions(ctx context.Context) ([]Position, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price, value decimal.Decimal) error
}

type investmentRepository struct {
	db *sql.DB
}

func NewInvestmentRepository(db *sql.DB) InvestmentRepository {
	return &investmentRepository{db: db}
}

const investmentColumns = `id, user_id, name, symbol, investment_type, amount_invested, current_value, purchase_date,
	quantity, purchase_price, current_price, broker_platform, fees, taxes, dividends_earned, is_active,
	maturity_date, risk_level, sector, notes, created_at, updated_at`

// valueOrInvested is the value used for totals when no current value is known.
const valueOrInvested = `COALESCE(current_value, amount_invested)`

func scanInvestment(row interface{ Scan(dest ...any) error }) (*Investment, error) {
	var i Investment
	err := row.Scan(&i.ID, &i.UserID, &i.Name, &i.Symbol, &i.InvestmentType, &i.AmountInvested, &i.CurrentValue,
		&i.PurchaseDate, &i.Quantity, &i.PurchasePrice, &i.CurrentPrice, &i.BrokerPlatform, &i.Fees, &i.Taxes,
		&i.DividendsEarned, &i.IsActive, &i.MaturityDate, &i.RiskLevel, &i.Sector, &i.Notes, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *investmentRepository) Create(ctx context.Context, i *Investment) error {
	query := `INSERT INTO investments (` + investmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.db.ExecContext(ctx, query,
		i.ID, i.UserID, i.Name, i.Symbol, i.InvestmentType, i.AmountInvested, i.CurrentValue, i.PurchaseDate,
		i.Quantity, i.PurchasePrice, i.CurrentPrice, i.BrokerPlatform, i.Fees, i.Taxes, i.DividendsEarned, i.IsActive,
		i.MaturityDate, i.RiskLevel, i.Sector, i.Notes, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not create investment: %w", err)
	}
	return nil
}

func (r *investmentRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1 AND user_id = $2`
	return scanInvestment(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *investmentRepository) List(ctx context.Context, userID string, filter Filter) ([]Investment, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}
	if filter.InvestmentType != nil {
		args = append(args, *filter.InvestmentType)
		conditions = append(conditions, fmt.Sprintf("investment_type = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	args = append(args, filter.Page.Limit, filter.Page.Skip)

	query := fmt.Sprintf(`SELECT %s FROM investments WHERE %s
		ORDER BY purchase_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		investmentColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	investments := []Investment{}
	for rows.Next() {
		investment, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, *investment)
	}
	return investments, rows.Err()
}

func (r *investmentRepository) Update(ctx context.Context, i *Investment) (int64, error) {
	query := `
		UPDATE investments
		SET name = $1, symbol = $2, investment_type = $3, amount_invested = $4, current_value = $5,
			purchase_date = $6, quantity = $7, purchase_price = $8, current_price = $9, broker_platform = $10,
			fees = $11, taxes = $12, dividends_earned = $13, is_active = $14, maturity_date = $15,
			risk_level = $16, sector = $17, notes = $18, updated_at = $19
		WHERE id = $20 AND user_id = $21
	`
	result, err := r.db.ExecContext(ctx, query,
		i.Name, i.Symbol, i.InvestmentType, i.AmountInvested, i.CurrentValue, i.PurchaseDate, i.Quantity,
		i.PurchasePrice, i.CurrentPrice, i.BrokerPlatform, i.Fees, i.Taxes, i.DividendsEarned, i.IsActive,
		i.MaturityDate, i.RiskLevel, i.Sector, i.Notes, i.UpdatedAt, i.ID, i.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *investmentRepository) Delete(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *investmentRepository) SummaryByType(ctx context.Context, userID string) ([]TypeSummary, error) {
	query := `
		SELECT investment_type, SUM(amount_invested), SUM(` + valueOrInvested + `), COUNT(*)
		FROM investments
		WHERE user_id = $1 AND is_active = TRUE
		GROUP BY investment_type
		ORDER BY 2 DESC, investment_type
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := []TypeSummary{}
	for rows.Next() {
		var s TypeSummary
		if err := rows.Scan(&s.InvestmentType, &s.TotalInvested, &s.TotalCurrentValue, &s.Count); err != nil {
			return nil, err
		}
		summary = append(summary, s)
	}
	return summary, rows.Err()
}

func (r *investmentRepository) ActiveTotals(ctx context.Context, userID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_invested), 0), COALESCE(SUM(` + valueOrInvested + `), 0)
		FROM investments
		WHERE user_id = $1 AND is_active = TRUE
	`
	var invested, current decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&invested, &current); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return invested, current, nil
}

func (r *investmentRepository) ListPositions(ctx context.Context) ([]Position, error) {
	query := `
		SELECT id, symbol, quantity
		FROM investments
		WHERE is_active = TRUE AND symbol IS NOT NULL AND symbol <> '' AND quantity IS NOT NULL
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.Symbol, &p.Quantity); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (r *investmentRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price, value decimal.Decimal) error {
	query := `UPDATE investments SET current_price = $1, current_value = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, price, value, time.Now().UTC(), id)
	return err
}
