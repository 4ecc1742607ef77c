package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/pagination"
	"github.com/shopspring/decimal"
)

var (
	ErrBudgetNotFound     = errors.New("budget not found")
	ErrBudgetItemNotFound = errors.New("budget item not found")
)

const (
	StatusUnderBudget = "under_budget"
	StatusOnBudget    = "on_budget"
	StatusOverBudget  = "over_budget"
)

var hundred = decimal.NewFromInt(100)

type Budget struct {
	ID            uuid.UUID       `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	StartDate     Date            `json:"start_date"`
	EndDate       Date            `json:"end_date"`
	TotalBudgeted decimal.Decimal `json:"total_budgeted"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	Currency      string          `json:"currency"`
	IsActive      bool            `json:"is_active"`
	Items         []BudgetItem    `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type BudgetItem struct {
	ID             uuid.UUID       `json:"id"`
	BudgetID       uuid.UUID       `json:"budget_id"`
	CategoryID     uuid.UUID       `json:"category_id"`
	CategoryName   string          `json:"category_name,omitempty"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
	Notes          *string         `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type BudgetUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *Date   `json:"start_date"`
	EndDate     *Date   `json:"end_date"`
	Currency    *string `json:"currency"`
	IsActive    *bool   `json:"is_active"`
}

type BudgetItemUpdate struct {
	BudgetedAmount *decimal.Decimal `json:"budgeted_amount"`
	Notes          *string          `json:"notes"`
}

type BudgetFilter struct {
	IsActive *bool
	Page     pagination.Page
}

// BudgetRepository keeps total_budgeted equal to the sum of the items inside
// every write that touches items.
type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*Budget, error)
	List(ctx context.Context, userID string, filter BudgetFilter) ([]Budget, error)
	ListActive(ctx context.Context) ([]Budget, error)
	Update(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	AddItem(ctx context.Context, userID string, item *BudgetItem) error
	FindItem(ctx context.Context, budgetID, itemID uuid.UUID, userID string) (*BudgetItem, error)
	UpdateItem(ctx context.Context, userID string, item *BudgetItem) error
	DeleteItem(ctx context.Context, budgetID, itemID uuid.UUID, userID string) error
	UpdateTotalSpent(ctx context.Context, budgetID uuid.UUID, userID string, totalSpent decimal.Decimal) error
}

func (b *Budget) Validate() error {
	if err := validateLength("Name", b.Name, 1, 100); err != nil {
		return err
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return financeErrors.NewValidationError("Start date and end date are required")
	}
	if !b.StartDate.Before(b.EndDate.Time) {
		return financeErrors.NewValidationError("Start date must be before end date")
	}
	if err := validateCurrency(b.Currency); err != nil {
		return err
	}

	seen := make(map[uuid.UUID]bool, len(b.Items))
	total := decimal.Zero
	for i := range b.Items {
		if err := b.Items[i].Validate(); err != nil {
			return financeErrors.NewIndexedValidationError(i, err.Error())
		}
		if seen[b.Items[i].CategoryID] {
			return financeErrors.NewIndexedValidationError(i, "category is already budgeted")
		}
		seen[b.Items[i].CategoryID] = true
		total = total.Add(b.Items[i].BudgetedAmount)
	}
	return validateBelowMax("Total budgeted", total)
}

// RecalculateTotal sets total_budgeted from the items.
func (b *Budget) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.BudgetedAmount)
	}
	b.TotalBudgeted = total
}

// SpendingWindow is the [start, end] budget period as a half-open range of
// instants.
func (b *Budget) SpendingWindow() (time.Time, time.Time) {
	return b.StartDate.Time, b.EndDate.AddDate(0, 0, 1)
}

func (i *BudgetItem) Validate() error {
	if i.CategoryID == uuid.Nil {
		return financeErrors.NewValidationError("Category is required")
	}
	return validatePositive("Budgeted amount", i.BudgetedAmount)
}

func (u BudgetUpdate) Apply(b *Budget) {
	if u.Name != nil {
		b.Name = *u.Name
	}
	if u.Description != nil {
		b.Description = u.Description
	}
	if u.StartDate != nil {
		b.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		b.EndDate = *u.EndDate
	}
	if u.Currency != nil {
		b.Currency = *u.Currency
	}
	if u.IsActive != nil {
		b.IsActive = *u.IsActive
	}
}

type ItemComparison struct {
	ItemID          uuid.UUID       `json:"item_id"`
	CategoryID      uuid.UUID       `json:"category_id"`
	CategoryName    string          `json:"category_name"`
	BudgetedAmount  decimal.Decimal `json:"budgeted_amount"`
	SpentAmount     decimal.Decimal `json:"spent_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PercentageUsed  decimal.Decimal `json:"percentage_used"`
	Status          string          `json:"status"`
}

type BudgetComparison struct {
	BudgetID              uuid.UUID        `json:"budget_id"`
	BudgetName            string           `json:"budget_name"`
	StartDate             Date             `json:"start_date"`
	EndDate               Date             `json:"end_date"`
	Currency              string           `json:"currency"`
	TotalBudgeted         decimal.Decimal  `json:"total_budgeted"`
	TotalSpent            decimal.Decimal  `json:"total_spent"`
	TotalRemaining        decimal.Decimal  `json:"total_remaining"`
	PercentageUsed        decimal.Decimal  `json:"percentage_used"`
	CategoriesUnderBudget int              `json:"categories_under_budget"`
	CategoriesOnBudget    int              `json:"categories_on_budget"`
	CategoriesOverBudget  int              `json:"categories_over_budget"`
	Comparisons           []ItemComparison `json:"comparisons"`
}

func percentageOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// CompareBudget matches every item against the spending recorded for its
// category. Categories without spending count as zero.
func CompareBudget(b *Budget, spent map[uuid.UUID]decimal.Decimal) BudgetComparison {
	result := BudgetComparison{
		BudgetID:      b.ID,
		BudgetName:    b.Name,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		Currency:      b.Currency,
		TotalBudgeted: b.TotalBudgeted,
		TotalSpent:    decimal.Zero,
		Comparisons:   make([]ItemComparison, 0, len(b.Items)),
	}

	for _, item := range b.Items {
		itemSpent := spent[item.CategoryID]

		comparison := ItemComparison{
			ItemID:          item.ID,
			CategoryID:      item.CategoryID,
			CategoryName:    item.CategoryName,
			BudgetedAmount:  item.BudgetedAmount,
			SpentAmount:     itemSpent,
			RemainingAmount: item.BudgetedAmount.Sub(itemSpent),
			PercentageUsed:  percentageOf(itemSpent, item.BudgetedAmount),
		}

		switch itemSpent.Cmp(item.BudgetedAmount) {
		case -1:
			comparison.Status = StatusUnderBudget
			result.CategoriesUnderBudget++
		case 0:
			comparison.Status = StatusOnBudget
			result.CategoriesOnBudget++
		default:
			comparison.Status = StatusOverBudget
			result.CategoriesOverBudget++
		}

		result.Comparisons = append(result.Comparisons, comparison)
		result.TotalSpent = result.TotalSpent.Add(itemSpent)
	}

	result.TotalRemaining = result.TotalBudgeted.Sub(result.TotalSpent)
	result.PercentageUsed = percentageOf(result.TotalSpent, result.TotalBudgeted)
	return result
}
