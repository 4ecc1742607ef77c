package products

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/investment/rules"
	"github.com/shopspring/decimal"
)

const (
	GroupByProductType = "product_type"
	GroupByInstitution = "institution"
)

var (
	ErrProductNotFound = errors.New("financial product not found")
	ErrInvalidGroupBy  = financeErrors.NewValidationError("Invalid group_by value")
)

type ProductUpdate struct {
	Name            *string          `json:"name"`
	ProductType     *string          `json:"product_type"`
	Institution     *string          `json:"institution"`
	AccountNumber   *string          `json:"account_number"`
	Balance         *decimal.Decimal `json:"balance"`
	InterestRate    *decimal.Decimal `json:"interest_rate"`
	MinimumBalance  *decimal.Decimal `json:"minimum_balance"`
	MonthlyFee      *decimal.Decimal `json:"monthly_fee"`
	CreditLimit     *decimal.Decimal `json:"credit_limit"`
	AvailableCredit *decimal.Decimal `json:"available_credit"`
	PaymentDueDate  *int             `json:"payment_due_date"`
	MinimumPayment  *decimal.Decimal `json:"minimum_payment"`
	IsActive        *bool            `json:"is_active"`
	OpeningDate     *time.Time       `json:"opening_date"`
	MaturityDate    *time.Time       `json:"maturity_date"`
	Currency        *string          `json:"currency"`
	Notes           *string          `json:"notes"`
}

type Service interface {
	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, id uuid.UUID, userID string) (*Product, error)
	GetProducts(ctx context.Context, userID string, filter Filter) ([]Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, userID string, update ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, userID string) error
	GetSummary(ctx context.Context, userID, groupBy string) ([]SummaryRow, error)
	GetBalance(ctx context.Context, userID string) ([]Balance, error)
}

type service struct {
	productRepo ProductRepository
}

func NewProductService(repo ProductRepository) Service {
	return &service{productRepo: repo}
}

func (s *service) CreateProduct(ctx context.Context, product *Product) error {
	product.ID = uuid.New()
	normalize(product)
	if err := validate(product); err != nil {
		return err
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	return s.productRepo.Create(ctx, product)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID, userID string) (*Product, error) {
	product, err := s.productRepo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *service) GetProducts(ctx context.Context, userID string, filter Filter) ([]Product, error) {
	return s.productRepo.List(ctx, userID, filter)
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, userID string, update ProductUpdate) (*Product, error) {
	product, err := s.GetProduct(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	update.apply(product)
	normalize(product)
	if err := validate(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()

	affected, err := s.productRepo.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID, userID string) error {
	affected, err := s.productRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *service) GetSummary(ctx context.Context, userID, groupBy string) ([]SummaryRow, error) {
	if groupBy == "" {
		groupBy = GroupByProductType
	}
	if groupBy != GroupByProductType && groupBy != GroupByInstitution {
		return nil, ErrInvalidGroupBy
	}
	return s.productRepo.Summary(ctx, userID, groupBy)
}

// GetBalance totals active products per currency. A user without products
// gets a single zero balance in the default currency.
func (s *service) GetBalance(ctx context.Context, userID string) ([]Balance, error) {
	balances, err := s.productRepo.BalanceByCurrency(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(balances) == 0 {
		return []Balance{{TotalBalance: decimal.Zero, Currency: rules.DefaultCurrency}}, nil
	}
	return balances, nil
}

func normalize(p *Product) {
	p.Currency = rules.NormalizeCurrency(p.Currency)
	p.Balance = p.Balance.Round(2)
	p.MinimumBalance = rules.Round2(p.MinimumBalance)
	p.MonthlyFee = rules.Round2(p.MonthlyFee)
	p.CreditLimit = rules.Round2(p.CreditLimit)
	p.AvailableCredit = rules.Round2(p.AvailableCredit)
	p.MinimumPayment = rules.Round2(p.MinimumPayment)
}

func validate(p *Product) error {
	err := rules.First(
		rules.Length("Name", p.Name, 1, 255),
		rules.Length("Product type", p.ProductType, 1, 50),
		rules.Length("Institution", p.Institution, 1, 255),
		rules.OptionalLength("Account number", p.AccountNumber, 100),
		rules.Bounded("Balance", p.Balance),
		rules.NullRate("Interest rate", p.InterestRate),
		rules.NullNonNegative("Minimum balance", p.MinimumBalance),
		rules.NullNonNegative("Monthly fee", p.MonthlyFee),
		rules.NullNonNegative("Credit limit", p.CreditLimit),
		rules.NullBounded("Available credit", p.AvailableCredit),
		rules.NullNonNegative("Minimum payment", p.MinimumPayment),
		rules.DueDay(p.PaymentDueDate),
		rules.Currency(p.Currency),
	)
	if err != nil {
		return err
	}
	if p.OpeningDate != nil {
		return rules.After("Maturity date", "opening date", p.MaturityDate, *p.OpeningDate)
	}
	return nil
}

func (u ProductUpdate) apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.ProductType != nil {
		p.ProductType = *u.ProductType
	}
	if u.Institution != nil {
		p.Institution = *u.Institution
	}
	if u.AccountNumber != nil {
		p.AccountNumber = u.AccountNumber
	}
	if u.Balance != nil {
		p.Balance = *u.Balance
	}
	if u.InterestRate != nil {
		p.InterestRate = rules.Set(u.InterestRate)
	}
	if u.MinimumBalance != nil {
		p.MinimumBalance = rules.Set(u.MinimumBalance)
	}
	if u.MonthlyFee != nil {
		p.MonthlyFee = rules.Set(u.MonthlyFee)
	}
	if u.CreditLimit != nil {
		p.CreditLimit = rules.Set(u.CreditLimit)
	}
	if u.AvailableCredit != nil {
		p.AvailableCredit = rules.Set(u.AvailableCredit)
	}
	if u.PaymentDueDate != nil {
		p.PaymentDueDate = u.PaymentDueDate
	}
	if u.MinimumPayment != nil {
		p.MinimumPayment = rules.Set(u.MinimumPayment)
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
	if u.OpeningDate != nil {
		p.OpeningDate = u.OpeningDate
	}
	if u.MaturityDate != nil {
		p.MaturityDate = u.MaturityDate
	}
	if u.Currency != nil {
		p.Currency = *u.Currency
	}
	if u.Notes != nil {
		p.Notes = u.Notes
	}
}
