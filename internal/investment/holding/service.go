package holdings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/investment/rules"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
	"github.com/shopspring/decimal"
)

var (
	ErrInvestmentNotFound = errors.New("investment not found")
	ErrMarketDataDisabled = errors.New("market data source is not configured")
)

var riskLevels = map[string]bool{"low": true, "medium": true, "high": true}

var hundred = decimal.NewFromInt(100)

type InvestmentUpdate struct {
	Name            *string          `json:"name"`
	Symbol          *string          `json:"symbol"`
	InvestmentType  *string          `json:"investment_type"`
	AmountInvested  *decimal.Decimal `json:"amount_invested"`
	CurrentValue    *decimal.Decimal `json:"current_value"`
	PurchaseDate    *time.Time       `json:"purchase_date"`
	Quantity        *decimal.Decimal `json:"quantity"`
	PurchasePrice   *decimal.Decimal `json:"purchase_price"`
	CurrentPrice    *decimal.Decimal `json:"current_price"`
	BrokerPlatform  *string          `json:"broker_platform"`
	Fees            *decimal.Decimal `json:"fees"`
	Taxes           *decimal.Decimal `json:"taxes"`
	DividendsEarned *decimal.Decimal `json:"dividends_earned"`
	IsActive        *bool            `json:"is_active"`
	MaturityDate    *time.Time       `json:"maturity_date"`
	RiskLevel       *string          `json:"risk_level"`
	Sector          *string          `json:"sector"`
	Notes           *string          `json:"notes"`
}

type Performance struct {
	TotalInvested         decimal.Decimal `json:"total_invested"`
	TotalCurrentValue     decimal.Decimal `json:"total_current_value"`
	TotalPerformance      decimal.Decimal `json:"total_performance"`
	PerformancePercentage decimal.Decimal `json:"performance_percentage"`
}

// PriceSource returns the latest quote per symbol. Unknown symbols are
// left out of the result.
type PriceSource interface {
	FetchBatchPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

type Service interface {
	CreateInvestment(ctx context.Context, investment *Investment) error
	GetInvestment(ctx context.Context, id uuid.UUID, userID string) (*Investment, error)
	GetInvestments(ctx context.Context, userID string, filter Filter) ([]Investment, error)
	UpdateInvestment(ctx context.Context, id uuid.UUID, userID string, update InvestmentUpdate) (*Investment, error)
	DeleteInvestment(ctx context.Context, id uuid.UUID, userID string) error
	GetSummary(ctx context.Context, userID string) ([]TypeSummary, error)
	GetPerformance(ctx context.Context, userID string) (*Performance, error)
	RefreshMarketPrices(ctx context.Context) (int, error)
}

type service struct {
	investmentRepo InvestmentRepository
	prices         PriceSource
}

// NewInvestmentService builds the service; prices may be nil, which disables
// RefreshMarketPrices.
func NewInvestmentService(repo InvestmentRepository, prices PriceSource) Service {
	return &service{investmentRepo: repo, prices: prices}
}

func (s *service) CreateInvestment(ctx context.Context, investment *Investment) error {
	investment.ID = uuid.New()
	normalize(investment)
	if err := validate(investment); err != nil {
		return err
	}

	now := time.Now().UTC()
	investment.CreatedAt = now
	investment.UpdatedAt = now
	return s.investmentRepo.Create(ctx, investment)
}

func (s *service) GetInvestment(ctx context.Context, id uuid.UUID, userID string) (*Investment, error) {
	investment, err := s.investmentRepo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvestmentNotFound
		}
		return nil, err
	}
	return investment, nil
}

func (s *service) GetInvestments(ctx context.Context, userID string, filter Filter) ([]Investment, error) {
	return s.investmentRepo.List(ctx, userID, filter)
}

func (s *service) UpdateInvestment(ctx context.Context, id uuid.UUID, userID string, update InvestmentUpdate) (*Investment, error) {
	investment, err := s.GetInvestment(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	update.apply(investment)
	normalize(investment)
	if err := validate(investment); err != nil {
		return nil, err
	}
	investment.UpdatedAt = time.Now().UTC()

	affected, err := s.investmentRepo.Update(ctx, investment)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvestmentNotFound
	}
	return investment, nil
}

func (s *service) DeleteInvestment(ctx context.Context, id uuid.UUID, userID string) error {
	affected, err := s.investmentRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvestmentNotFound
	}
	return nil
}

func (s *service) GetSummary(ctx context.Context, userID string) ([]TypeSummary, error) {
	return s.investmentRepo.SummaryByType(ctx, userID)
}

func (s *service) GetPerformance(ctx context.Context, userID string) (*Performance, error) {
	invested, current, err := s.investmentRepo.ActiveTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	performance := &Performance{
		TotalInvested:         invested,
		TotalCurrentValue:     current,
		TotalPerformance:      current.Sub(invested),
		PerformancePercentage: decimal.Zero,
	}
	if invested.IsPositive() {
		performance.PerformancePercentage = performance.TotalPerformance.Div(invested).Mul(hundred).Round(2)
	}
	return performance, nil
}

// RefreshMarketPrices sets current_price and current_value of every active
// position whose symbol has a quote. It returns the number of updated rows.
func (s *service) RefreshMarketPrices(ctx context.Context) (int, error) {
	if s.prices == nil {
		return 0, ErrMarketDataDisabled
	}

	positions, err := s.investmentRepo.ListPositions(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not list positions: %w", err)
	}
	if len(positions) == 0 {
		return 0, nil
	}

	seen := make(map[string]bool)
	var symbols []string
	for _, p := range positions {
		if !seen[p.Symbol] {
			seen[p.Symbol] = true
			symbols = append(symbols, p.Symbol)
		}
	}

	quotes, err := s.prices.FetchBatchPrices(ctx, symbols)
	if err != nil {
		return 0, fmt.Errorf("could not fetch prices: %w", err)
	}

	updated := 0
	var errs []error
	for _, p := range positions {
		price, ok := quotes[p.Symbol]
		if !ok {
			logging.FromContext(ctx).Debug("no quote for symbol", "symbol", p.Symbol)
			continue
		}
		value := p.Quantity.Mul(price).Round(2)
		if err := s.investmentRepo.UpdatePrice(ctx, p.ID, price, value); err != nil {
			errs = append(errs, fmt.Errorf("investment %s: %w", p.ID, err))
			continue
		}
		updated++
	}
	return updated, errors.Join(errs...)
}

func normalize(i *Investment) {
	if i.Symbol != nil {
		symbol := strings.ToUpper(strings.TrimSpace(*i.Symbol))
		if symbol == "" {
			i.Symbol = nil
		} else {
			i.Symbol = &symbol
		}
	}
	if i.RiskLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*i.RiskLevel))
		i.RiskLevel = &level
	}
	i.AmountInvested = i.AmountInvested.Round(2)
	i.CurrentValue = rules.Round2(i.CurrentValue)
	i.Fees = i.Fees.Round(2)
	i.Taxes = i.Taxes.Round(2)
	i.DividendsEarned = i.DividendsEarned.Round(2)
}

func validate(i *Investment) error {
	err := rules.First(
		rules.Length("Name", i.Name, 1, 255),
		rules.OptionalLength("Symbol", i.Symbol, 20),
		rules.Length("Investment type", i.InvestmentType, 1, 50),
		rules.Positive("Amount invested", i.AmountInvested),
		rules.NullNonNegative("Current value", i.CurrentValue),
		rules.Required("Purchase date", i.PurchaseDate),
		rules.NullNonNegative("Quantity", i.Quantity),
		rules.NullNonNegative("Purchase price", i.PurchasePrice),
		rules.NullNonNegative("Current price", i.CurrentPrice),
		rules.OptionalLength("Broker platform", i.BrokerPlatform, 100),
		rules.NonNegative("Fees", i.Fees),
		rules.NonNegative("Taxes", i.Taxes),
		rules.NonNegative("Dividends earned", i.DividendsEarned),
		rules.After("Maturity date", "purchase date", i.MaturityDate, i.PurchaseDate),
		rules.OptionalLength("Sector", i.Sector, 100),
	)
	if err != nil {
		return err
	}
	if i.RiskLevel != nil && !riskLevels[*i.RiskLevel] {
		return financeErrors.NewValidationError("Risk level must be one of low, medium, high")
	}
	return nil
}

func (u InvestmentUpdate) apply(i *Investment) {
	if u.Name != nil {
		i.Name = *u.Name
	}
	if u.Symbol != nil {
		i.Symbol = u.Symbol
	}
	if u.InvestmentType != nil {
		i.InvestmentType = *u.InvestmentType
	}
	if u.AmountInvested != nil {
		i.AmountInvested = *u.AmountInvested
	}
	if u.CurrentValue != nil {
		i.CurrentValue = rules.Set(u.CurrentValue)
	}
	if u.PurchaseDate != nil {
		i.PurchaseDate = *u.PurchaseDate
	}
	if u.Quantity != nil {
		i.Quantity = rules.Set(u.Quantity)
	}
	if u.PurchasePrice != nil {
		i.PurchasePrice = rules.Set(u.PurchasePrice)
	}
	if u.CurrentPrice != nil {
		i.CurrentPrice = rules.Set(u.CurrentPrice)
	}
	if u.BrokerPlatform != nil {
		i.BrokerPlatform = u.BrokerPlatform
	}
	if u.Fees != nil {
		i.Fees = *u.Fees
	}
	if u.Taxes != nil {
		i.Taxes = *u.Taxes
	}
	if u.DividendsEarned != nil {
		i.DividendsEarned = *u.DividendsEarned
	}
	if u.IsActive != nil {
		i.IsActive = *u.IsActive
	}
	if u.MaturityDate != nil {
		i.MaturityDate = u.MaturityDate
	}
	if u.RiskLevel != nil {
		i.RiskLevel = u.RiskLevel
	}
	if u.Sector != nil {
		i.Sector = u.Sector
	}
	if u.Notes != nil {
		i.Notes = u.Notes
	}
}
