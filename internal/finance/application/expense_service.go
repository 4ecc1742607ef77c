package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type ExpenseService struct {
	repo            domain.ExpenseRepository
	categoryService CategoryServiceInterface
	paymentService  PaymentServiceInterface
	tagService      TagServiceInterface
}

func NewExpenseService(repo domain.ExpenseRepository, categoryService CategoryServiceInterface, paymentService PaymentServiceInterface, tagService TagServiceInterface) *ExpenseService {
	return &ExpenseService{repo: repo, categoryService: categoryService, paymentService: paymentService, tagService: tagService}
}

func (s *ExpenseService) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	expense.ID = uuid.New()
	expense.Normalize()
	if err := expense.Validate(); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, expense); err != nil {
		return err
	}

	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	return s.repo.Create(ctx, expense)
}

func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID, userID string) (*domain.Expense, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *ExpenseService) GetExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	return s.repo.List(ctx, userID, filter)
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, id uuid.UUID, userID string, update domain.ExpenseUpdate) (*domain.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	update.Apply(expense)
	expense.Normalize()
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, expense); err != nil {
		return nil, err
	}

	expense.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}

// GetExpenseSummary groups the user's expenses; an empty groupBy means by category.
func (s *ExpenseService) GetExpenseSummary(ctx context.Context, userID, groupBy string, dateRange domain.DateRange) ([]domain.SummaryRow, error) {
	if groupBy == "" {
		groupBy = domain.ExpenseGroupByCategory
	}
	if !domain.IsValidExpenseGroupBy(groupBy) {
		return nil, ErrInvalidGroupBy
	}
	return s.repo.Summary(ctx, userID, groupBy, dateRange)
}

func (s *ExpenseService) SpentByCategory(ctx context.Context, userID string, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	return s.repo.SpentByCategory(ctx, userID, from, to)
}

func (s *ExpenseService) checkReferences(ctx context.Context, expense *domain.Expense) error {
	if err := requireCategory(ctx, s.categoryService, expense.CategoryID, expense.UserID, domain.CategoryTypeExpense); err != nil {
		return err
	}
	if expense.PaymentMethodID != nil {
		exists, err := s.paymentService.DoesPaymentMethodExist(ctx, *expense.PaymentMethodID, expense.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return financeErrors.ErrInvalidPaymentMethod
		}
	}
	return requireTags(ctx, s.tagService, expense.TagIDs, expense.UserID)
}
