package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
	"github.com/shopspring/decimal"
)

// SpendingReader totals a user's expenses per category over [from, to).
type SpendingReader interface {
	SpentByCategory(ctx context.Context, userID string, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error)
}

type BudgetService struct {
	repo            domain.BudgetRepository
	categoryService CategoryServiceInterface
	spending        SpendingReader
}

func NewBudgetService(repo domain.BudgetRepository, categoryService CategoryServiceInterface, spending SpendingReader) *BudgetService {
	return &BudgetService{repo: repo, categoryService: categoryService, spending: spending}
}

func (s *BudgetService) CreateBudget(ctx context.Context, budget *domain.Budget) error {
	now := time.Now().UTC()
	budget.ID = uuid.New()
	if budget.Currency == "" {
		budget.Currency = domain.DefaultCurrency
	}
	if budget.Items == nil {
		budget.Items = []domain.BudgetItem{}
	}
	for i := range budget.Items {
		item := &budget.Items[i]
		item.ID = uuid.New()
		item.BudgetID = budget.ID
		item.BudgetedAmount = item.BudgetedAmount.Round(2)
		item.CreatedAt = now
		item.UpdatedAt = now
	}
	if err := budget.Validate(); err != nil {
		return err
	}

	for i, item := range budget.Items {
		if err := requireCategory(ctx, s.categoryService, item.CategoryID, budget.UserID, domain.CategoryTypeExpense); err != nil {
			if financeErrors.IsValidationError(err) {
				return financeErrors.NewIndexedValidationError(i, err.Error())
			}
			return err
		}
	}

	budget.RecalculateTotal()
	budget.TotalSpent = decimal.Zero
	budget.CreatedAt = now
	budget.UpdatedAt = now
	return s.repo.Create(ctx, budget)
}

func (s *BudgetService) GetBudget(ctx context.Context, id uuid.UUID, userID string) (*domain.Budget, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *BudgetService) GetBudgets(ctx context.Context, userID string, filter domain.BudgetFilter) ([]domain.Budget, error) {
	return s.repo.List(ctx, userID, filter)
}

func (s *BudgetService) UpdateBudget(ctx context.Context, id uuid.UUID, userID string, update domain.BudgetUpdate) (*domain.Budget, error) {
	budget, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	update.Apply(budget)
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	budget.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, id uuid.UUID, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *BudgetService) AddBudgetItem(ctx context.Context, budgetID uuid.UUID, userID string, item *domain.BudgetItem) (*domain.BudgetItem, error) {
	budget, err := s.repo.FindByID(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}

	item.BudgetedAmount = item.BudgetedAmount.Round(2)
	if err := item.Validate(); err != nil {
		return nil, err
	}
	for _, existing := range budget.Items {
		if existing.CategoryID == item.CategoryID {
			return nil, financeErrors.NewValidationError("Category is already budgeted")
		}
	}
	if err := requireCategory(ctx, s.categoryService, item.CategoryID, userID, domain.CategoryTypeExpense); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item.ID = uuid.New()
	item.BudgetID = budgetID
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := s.repo.AddItem(ctx, userID, item); err != nil {
		return nil, err
	}
	return s.repo.FindItem(ctx, budgetID, item.ID, userID)
}

func (s *BudgetService) UpdateBudgetItem(ctx context.Context, budgetID, itemID uuid.UUID, userID string, update domain.BudgetItemUpdate) (*domain.BudgetItem, error) {
	item, err := s.repo.FindItem(ctx, budgetID, itemID, userID)
	if err != nil {
		return nil, err
	}

	if update.BudgetedAmount != nil {
		item.BudgetedAmount = update.BudgetedAmount.Round(2)
	}
	if update.Notes != nil {
		item.Notes = update.Notes
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateItem(ctx, userID, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *BudgetService) DeleteBudgetItem(ctx context.Context, budgetID, itemID uuid.UUID, userID string) error {
	return s.repo.DeleteItem(ctx, budgetID, itemID, userID)
}

// CompareBudget matches the budget against the user's spending in its period
// and stores the resulting total_spent.
func (s *BudgetService) CompareBudget(ctx context.Context, budgetID uuid.UUID, userID string) (*domain.BudgetComparison, error) {
	budget, err := s.repo.FindByID(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}

	comparison, err := s.compare(ctx, budget)
	if err != nil {
		return nil, err
	}
	return &comparison, nil
}

// RefreshActiveBudgets recomputes total_spent of every active budget and
// reports how many were updated.
func (s *BudgetService) RefreshActiveBudgets(ctx context.Context) (int, error) {
	budgets, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not list active budgets: %w", err)
	}

	var errs []error
	refreshed := 0
	for i := range budgets {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if _, err := s.compare(ctx, &budgets[i]); err != nil {
			logging.FromContext(ctx).Error("failed to refresh budget", "budget_id", budgets[i].ID, "error", err)
			errs = append(errs, err)
			continue
		}
		refreshed++
	}
	return refreshed, errors.Join(errs...)
}

func (s *BudgetService) compare(ctx context.Context, budget *domain.Budget) (domain.BudgetComparison, error) {
	from, to := budget.SpendingWindow()
	spent, err := s.spending.SpentByCategory(ctx, budget.UserID, from, to)
	if err != nil {
		return domain.BudgetComparison{}, err
	}

	comparison := domain.CompareBudget(budget, spent)
	if err := s.repo.UpdateTotalSpent(ctx, budget.ID, budget.UserID, comparison.TotalSpent); err != nil {
		return domain.BudgetComparison{}, err
	}
	budget.TotalSpent = comparison.TotalSpent
	return comparison, nil
}
