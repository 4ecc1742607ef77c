//go:build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	database "github.com/sebuszqo/FinanceLedger/db"
	"github.com/sebuszqo/FinanceLedger/internal/finance/application"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceLedger/internal/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type financeServices struct {
	categories *application.CategoryService
	tags       *application.TagService
	payments   *application.PaymentService
	expenses   *application.ExpenseService
	incomes    *application.IncomeService
	budgets    *application.BudgetService
}

func newFinanceServices(dbService *database.DBService) financeServices {
	categories := application.NewCategoryService(infrastructure.NewCategoryRepository(dbService.DB))
	tags := application.NewTagService(infrastructure.NewTagRepository(dbService.DB))
	payments := application.NewPaymentService(infrastructure.NewPaymentRepository(dbService.DB))
	expenseRepo := infrastructure.NewExpenseRepository(dbService.DB)
	return financeServices{
		categories: categories,
		tags:       tags,
		payments:   payments,
		expenses:   application.NewExpenseService(expenseRepo, categories, payments, tags),
		incomes:    application.NewIncomeService(infrastructure.NewIncomeRepository(dbService.DB), categories, tags),
		budgets:    application.NewBudgetService(infrastructure.NewBudgetRepository(dbService.DB), categories, expenseRepo),
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func testFinance(t *testing.T, dbService *database.DBService) {
	ctx := context.Background()
	svc := newFinanceServices(dbService)
	owner := createUser(t, dbService, "fin-owner")
	intruder := createUser(t, dbService, "fin-intruder")

	food := &domain.Category{UserID: owner, Name: "Food", CategoryType: domain.CategoryTypeExpense, IsActive: true}
	rent := &domain.Category{UserID: owner, Name: "Rent", CategoryType: domain.CategoryTypeExpense, IsActive: true}
	salary := &domain.Category{UserID: owner, Name: "Salary", CategoryType: domain.CategoryTypeIncome, IsActive: true}
	for _, c := range []*domain.Category{food, rent, salary} {
		require.NoError(t, svc.categories.CreateCategory(ctx, c))
	}
	card := &domain.PaymentMethod{UserID: owner, Name: "Visa", PaymentType: "credit_card", IsActive: true}
	require.NoError(t, svc.payments.CreatePaymentMethod(ctx, card))
	weekly := &domain.Tag{UserID: owner, Name: "weekly", IsActive: true}
	require.NoError(t, svc.tags.CreateTag(ctx, weekly))

	t.Run("expense crud and isolation", func(t *testing.T) {
		expense := &domain.Expense{
			UserID:          owner,
			Amount:          decimal.RequireFromString("42.505"),
			Description:     "Groceries",
			CategoryID:      food.ID,
			PaymentMethodID: &card.ID,
			TagIDs:          []uuid.UUID{weekly.ID},
			Date:            day(2024, time.May, 3),
		}
		require.NoError(t, svc.expenses.CreateExpense(ctx, expense))

		stored, err := svc.expenses.GetExpense(ctx, expense.ID, owner)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("42.51").Equal(stored.Amount))
		assert.Equal(t, []uuid.UUID{weekly.ID}, stored.TagIDs)
		assert.Equal(t, card.ID, *stored.PaymentMethodID)

		_, err = svc.expenses.GetExpense(ctx, expense.ID, intruder)
		assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
		_, err = svc.expenses.UpdateExpense(ctx, expense.ID, intruder, domain.ExpenseUpdate{Description: ptr("Hijacked")})
		assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
		assert.ErrorIs(t, svc.expenses.DeleteExpense(ctx, expense.ID, intruder), domain.ErrExpenseNotFound)

		noTags := []uuid.UUID{}
		updated, err := svc.expenses.UpdateExpense(ctx, expense.ID, owner, domain.ExpenseUpdate{Description: ptr("Market"), TagIDs: &noTags})
		require.NoError(t, err)
		assert.Equal(t, "Market", updated.Description)

		stored, err = svc.expenses.GetExpense(ctx, expense.ID, owner)
		require.NoError(t, err)
		assert.Empty(t, stored.TagIDs)

		foreign := &domain.Expense{UserID: intruder, Amount: decimal.NewFromInt(5), Description: "Sneaky", CategoryID: food.ID, Date: day(2024, time.May, 3)}
		err = svc.expenses.CreateExpense(ctx, foreign)
		assert.True(t, financeErrors.IsValidationError(err), "got %v", err)

		require.NoError(t, svc.expenses.DeleteExpense(ctx, expense.ID, owner))
		_, err = svc.expenses.GetExpense(ctx, expense.ID, owner)
		assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
	})

	t.Run("expense pages are disjoint and summaries add up", func(t *testing.T) {
		amounts := []string{"10.00", "20.00", "30.00", "40.00", "50.00"}
		total := decimal.Zero
		for i, amount := range amounts {
			category := food.ID
			if i%2 == 1 {
				category = rent.ID
			}
			e := &domain.Expense{
				UserID:      owner,
				Amount:      decimal.RequireFromString(amount),
				Description: "Entry",
				CategoryID:  category,
				Date:        day(2024, time.June, i+1),
			}
			require.NoError(t, svc.expenses.CreateExpense(ctx, e))
			total = total.Add(e.Amount)
		}

		first, err := svc.expenses.GetExpenses(ctx, owner, domain.ExpenseFilter{Page: pagination.Page{Skip: 0, Limit: 3}})
		require.NoError(t, err)
		second, err := svc.expenses.GetExpenses(ctx, owner, domain.ExpenseFilter{Page: pagination.Page{Skip: 3, Limit: 3}})
		require.NoError(t, err)
		require.Len(t, first, 3)
		require.Len(t, second, 2)
		seen := map[uuid.UUID]bool{}
		for _, e := range append(first, second...) {
			assert.False(t, seen[e.ID], "expense %s listed twice", e.ID)
			seen[e.ID] = true
		}
		assert.True(t, first[0].Date.After(second[0].Date), "newest first")

		none, err := svc.expenses.GetExpenses(ctx, intruder, domain.ExpenseFilter{Page: pagination.Default()})
		require.NoError(t, err)
		assert.Empty(t, none)

		start, end := day(2024, time.June, 1), day(2024, time.June, 30)
		summary, err := svc.expenses.GetExpenseSummary(ctx, owner, domain.ExpenseGroupByCategory, domain.DateRange{Start: &start, End: &end})
		require.NoError(t, err)
		require.Len(t, summary, 2)
		sum, count := decimal.Zero, 0
		for _, row := range summary {
			sum = sum.Add(row.TotalAmount)
			count += row.Count
		}
		assert.True(t, total.Equal(sum), "summary %s != %s", sum, total)
		assert.Equal(t, len(amounts), count)
		assert.Equal(t, food.ID.String(), summary[0].Key)
		assert.Equal(t, "Food", summary[0].Label)

		byMonth, err := svc.expenses.GetExpenseSummary(ctx, owner, domain.GroupByMonth, domain.DateRange{Start: &start, End: &end})
		require.NoError(t, err)
		require.Len(t, byMonth, 1)
		assert.Equal(t, "2024-06", byMonth[0].Key)
	})

	t.Run("income crud and summary", func(t *testing.T) {
		income := &domain.Income{
			UserID:      owner,
			Amount:      decimal.NewFromInt(3000),
			Description: "June payroll",
			Source:      "Acme",
			CategoryID:  &salary.ID,
			TagIDs:      []uuid.UUID{weekly.ID},
			Date:        day(2024, time.June, 30),
		}
		require.NoError(t, svc.incomes.CreateIncome(ctx, income))
		bonus := &domain.Income{UserID: owner, Amount: decimal.NewFromInt(500), Description: "Bonus", Source: "Acme", Date: day(2024, time.June, 15)}
		require.NoError(t, svc.incomes.CreateIncome(ctx, bonus))

		_, err := svc.incomes.GetIncome(ctx, income.ID, intruder)
		assert.ErrorIs(t, err, domain.ErrIncomeNotFound)

		wrongType := &domain.Income{UserID: owner, Amount: decimal.NewFromInt(1), Description: "Odd", Source: "Acme", CategoryID: &food.ID, Date: day(2024, time.June, 1)}
		assert.True(t, financeErrors.IsValidationError(svc.incomes.CreateIncome(ctx, wrongType)))

		summary, err := svc.incomes.GetIncomeSummary(ctx, owner, domain.IncomeGroupBySource, domain.DateRange{})
		require.NoError(t, err)
		require.Len(t, summary, 1)
		assert.True(t, decimal.NewFromInt(3500).Equal(summary[0].TotalAmount))
		assert.Equal(t, 2, summary[0].Count)

		require.NoError(t, svc.incomes.DeleteIncome(ctx, bonus.ID, owner))
		assert.ErrorIs(t, svc.incomes.DeleteIncome(ctx, bonus.ID, owner), domain.ErrIncomeNotFound)
	})

	t.Run("categories tags and payment methods guard their references", func(t *testing.T) {
		income := domain.CategoryTypeIncome
		_, err := svc.categories.UpdateCategory(ctx, food.ID, owner, domain.CategoryUpdate{CategoryType: &income})
		assert.True(t, financeErrors.IsValidationError(err), "got %v", err)
		assert.True(t, financeErrors.IsValidationError(svc.categories.DeleteCategory(ctx, food.ID, owner)))

		_, err = svc.categories.GetCategory(ctx, food.ID, intruder)
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

		usage, err := svc.tags.GetTagsWithUsage(ctx, owner)
		require.NoError(t, err)
		require.Len(t, usage, 1)
		assert.Equal(t, 1, usage[0].IncomeCount)
		assert.True(t, financeErrors.IsValidationError(svc.tags.DeleteTag(ctx, weekly.ID, owner)))

		_, err = svc.tags.GetTag(ctx, weekly.ID, intruder)
		assert.ErrorIs(t, err, domain.ErrTagNotFound)
		_, err = svc.payments.GetPaymentMethod(ctx, card.ID, intruder)
		assert.ErrorIs(t, err, domain.ErrPaymentMethodNotFound)
	})

	t.Run("budget totals follow items", func(t *testing.T) {
		budget := &domain.Budget{
			UserID:    owner,
			Name:      "June",
			StartDate: domain.NewDate(2024, time.June, 1),
			EndDate:   domain.NewDate(2024, time.June, 30),
			IsActive:  true,
			Items: []domain.BudgetItem{
				{CategoryID: food.ID, BudgetedAmount: decimal.NewFromInt(100)},
			},
		}
		require.NoError(t, svc.budgets.CreateBudget(ctx, budget))

		item, err := svc.budgets.AddBudgetItem(ctx, budget.ID, owner, &domain.BudgetItem{CategoryID: rent.ID, BudgetedAmount: decimal.NewFromInt(50)})
		require.NoError(t, err)
		assert.Equal(t, "Rent", item.CategoryName)

		stored, err := svc.budgets.GetBudget(ctx, budget.ID, owner)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(150).Equal(stored.TotalBudgeted))
		assert.Len(t, stored.Items, 2)

		require.NoError(t, svc.budgets.DeleteBudgetItem(ctx, budget.ID, item.ID, owner))
		stored, err = svc.budgets.GetBudget(ctx, budget.ID, owner)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(stored.TotalBudgeted))

		comparison, err := svc.budgets.CompareBudget(ctx, budget.ID, owner)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(90).Equal(comparison.TotalSpent), "food spent in June: %s", comparison.TotalSpent)

		_, err = svc.budgets.GetBudget(ctx, budget.ID, intruder)
		assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
		assert.ErrorIs(t, svc.budgets.DeleteBudget(ctx, budget.ID, intruder), domain.ErrBudgetNotFound)
	})
}

func ptr[T any](v T) *T {
	return &v
}
