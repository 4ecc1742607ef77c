package interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type mockCategoryService struct {
	createFn func(category *domain.Category) error
	getFn    func(id uuid.UUID) (*domain.Category, error)
	listFn   func(categoryType string) ([]domain.Category, error)
	treeFn   func(categoryType string) ([]*domain.CategoryNode, error)
	updateFn func(id uuid.UUID, update domain.CategoryUpdate) (*domain.Category, error)
	deleteFn func(id uuid.UUID) error
	lastUser string
}

func (m *mockCategoryService) CreateCategory(_ context.Context, category *domain.Category) error {
	m.lastUser = category.UserID
	if m.createFn == nil {
		category.ID = uuid.New()
		return nil
	}
	return m.createFn(category)
}

func (m *mockCategoryService) GetCategory(_ context.Context, id uuid.UUID, userID string) (*domain.Category, error) {
	m.lastUser = userID
	return m.getFn(id)
}

func (m *mockCategoryService) GetCategories(_ context.Context, userID, categoryType string) ([]domain.Category, error) {
	m.lastUser = userID
	return m.listFn(categoryType)
}

func (m *mockCategoryService) GetCategoryTree(_ context.Context, userID, categoryType string) ([]*domain.CategoryNode, error) {
	m.lastUser = userID
	return m.treeFn(categoryType)
}

func (m *mockCategoryService) UpdateCategory(_ context.Context, id uuid.UUID, userID string, update domain.CategoryUpdate) (*domain.Category, error) {
	m.lastUser = userID
	return m.updateFn(id, update)
}

func (m *mockCategoryService) DeleteCategory(_ context.Context, id uuid.UUID, userID string) error {
	m.lastUser = userID
	return m.deleteFn(id)
}

type mockTagService struct {
	createFn func(tag *domain.Tag) error
	getFn    func(id uuid.UUID) (*domain.Tag, error)
	tags     []domain.Tag
	usage    []domain.TagWithUsage
	updateFn func(id uuid.UUID, update domain.TagUpdate) (*domain.Tag, error)
	deleteFn func(id uuid.UUID) error
	err      error
}

func (m *mockTagService) CreateTag(_ context.Context, tag *domain.Tag) error {
	if m.createFn != nil {
		return m.createFn(tag)
	}
	tag.ID = uuid.New()
	return m.err
}

func (m *mockTagService) GetTag(_ context.Context, id uuid.UUID, _ string) (*domain.Tag, error) {
	return m.getFn(id)
}

func (m *mockTagService) GetTags(context.Context, string) ([]domain.Tag, error) {
	return m.tags, m.err
}

func (m *mockTagService) GetTagsWithUsage(context.Context, string) ([]domain.TagWithUsage, error) {
	return m.usage, m.err
}

func (m *mockTagService) UpdateTag(_ context.Context, id uuid.UUID, _ string, update domain.TagUpdate) (*domain.Tag, error) {
	return m.updateFn(id, update)
}

func (m *mockTagService) DeleteTag(_ context.Context, id uuid.UUID, _ string) error {
	return m.deleteFn(id)
}

type mockPaymentService struct {
	created    *domain.PaymentMethod
	methods    []domain.PaymentMethod
	lastFilter domain.PaymentMethodFilter
	deleteFn   func(id uuid.UUID) error
	err        error
}

func (m *mockPaymentService) CreatePaymentMethod(_ context.Context, method *domain.PaymentMethod) error {
	if m.err != nil {
		return m.err
	}
	method.ID = uuid.New()
	m.created = method
	return nil
}

func (m *mockPaymentService) GetPaymentMethod(_ context.Context, id uuid.UUID, _ string) (*domain.PaymentMethod, error) {
	for i := range m.methods {
		if m.methods[i].ID == id {
			return &m.methods[i], nil
		}
	}
	return nil, domain.ErrPaymentMethodNotFound
}

func (m *mockPaymentService) GetPaymentMethods(_ context.Context, _ string, filter domain.PaymentMethodFilter) ([]domain.PaymentMethod, error) {
	m.lastFilter = filter
	return m.methods, m.err
}

func (m *mockPaymentService) UpdatePaymentMethod(_ context.Context, id uuid.UUID, userID string, update domain.PaymentMethodUpdate) (*domain.PaymentMethod, error) {
	method, err := m.GetPaymentMethod(context.Background(), id, userID)
	if err != nil {
		return nil, err
	}
	update.Apply(method)
	return method, nil
}

func (m *mockPaymentService) DeletePaymentMethod(_ context.Context, id uuid.UUID, _ string) error {
	return m.deleteFn(id)
}

type mockExpenseService struct {
	created     *domain.Expense
	expenses    []domain.Expense
	lastFilter  domain.ExpenseFilter
	lastGroupBy string
	lastRange   domain.DateRange
	summary     []domain.SummaryRow
	err         error
}

func (m *mockExpenseService) CreateExpense(_ context.Context, expense *domain.Expense) error {
	if m.err != nil {
		return m.err
	}
	expense.ID = uuid.New()
	m.created = expense
	return nil
}

func (m *mockExpenseService) GetExpense(_ context.Context, id uuid.UUID, _ string) (*domain.Expense, error) {
	for i := range m.expenses {
		if m.expenses[i].ID == id {
			return &m.expenses[i], nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *mockExpenseService) GetExpenses(_ context.Context, _ string, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	m.lastFilter = filter
	return m.expenses, m.err
}

func (m *mockExpenseService) UpdateExpense(ctx context.Context, id uuid.UUID, userID string, update domain.ExpenseUpdate) (*domain.Expense, error) {
	if m.err != nil {
		return nil, m.err
	}
	expense, err := m.GetExpense(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	update.Apply(expense)
	return expense, nil
}

func (m *mockExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID, userID string) error {
	_, err := m.GetExpense(ctx, id, userID)
	return err
}

func (m *mockExpenseService) GetExpenseSummary(_ context.Context, _ string, groupBy string, dateRange domain.DateRange) ([]domain.SummaryRow, error) {
	m.lastGroupBy = groupBy
	m.lastRange = dateRange
	return m.summary, m.err
}

type mockIncomeService struct {
	created     *domain.Income
	incomes     []domain.Income
	lastFilter  domain.IncomeFilter
	lastGroupBy string
	err         error
}

func (m *mockIncomeService) CreateIncome(_ context.Context, income *domain.Income) error {
	if m.err != nil {
		return m.err
	}
	income.ID = uuid.New()
	m.created = income
	return nil
}

func (m *mockIncomeService) GetIncome(_ context.Context, id uuid.UUID, _ string) (*domain.Income, error) {
	for i := range m.incomes {
		if m.incomes[i].ID == id {
			return &m.incomes[i], nil
		}
	}
	return nil, domain.ErrIncomeNotFound
}

func (m *mockIncomeService) GetIncomes(_ context.Context, _ string, filter domain.IncomeFilter) ([]domain.Income, error) {
	m.lastFilter = filter
	return m.incomes, m.err
}

func (m *mockIncomeService) UpdateIncome(ctx context.Context, id uuid.UUID, userID string, update domain.IncomeUpdate) (*domain.Income, error) {
	income, err := m.GetIncome(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	update.Apply(income)
	return income, nil
}

func (m *mockIncomeService) DeleteIncome(ctx context.Context, id uuid.UUID, userID string) error {
	_, err := m.GetIncome(ctx, id, userID)
	return err
}

func (m *mockIncomeService) GetIncomeSummary(_ context.Context, _ string, groupBy string, _ domain.DateRange) ([]domain.SummaryRow, error) {
	m.lastGroupBy = groupBy
	return nil, m.err
}

type mockBudgetService struct {
	budgets    []domain.Budget
	lastFilter domain.BudgetFilter
	comparison *domain.BudgetComparison
	addedItem  *domain.BudgetItem
	err        error
}

func (m *mockBudgetService) CreateBudget(_ context.Context, budget *domain.Budget) error {
	if m.err != nil {
		return m.err
	}
	budget.ID = uuid.New()
	budget.RecalculateTotal()
	return nil
}

func (m *mockBudgetService) GetBudget(_ context.Context, id uuid.UUID, _ string) (*domain.Budget, error) {
	for i := range m.budgets {
		if m.budgets[i].ID == id {
			return &m.budgets[i], nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

func (m *mockBudgetService) GetBudgets(_ context.Context, _ string, filter domain.BudgetFilter) ([]domain.Budget, error) {
	m.lastFilter = filter
	return m.budgets, m.err
}

func (m *mockBudgetService) UpdateBudget(ctx context.Context, id uuid.UUID, userID string, update domain.BudgetUpdate) (*domain.Budget, error) {
	budget, err := m.GetBudget(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	update.Apply(budget)
	return budget, nil
}

func (m *mockBudgetService) DeleteBudget(ctx context.Context, id uuid.UUID, userID string) error {
	_, err := m.GetBudget(ctx, id, userID)
	return err
}

func (m *mockBudgetService) AddBudgetItem(ctx context.Context, budgetID uuid.UUID, userID string, item *domain.BudgetItem) (*domain.BudgetItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, err := m.GetBudget(ctx, budgetID, userID); err != nil {
		return nil, err
	}
	item.ID = uuid.New()
	item.BudgetID = budgetID
	m.addedItem = item
	return item, nil
}

func (m *mockBudgetService) UpdateBudgetItem(ctx context.Context, budgetID, itemID uuid.UUID, userID string, update domain.BudgetItemUpdate) (*domain.BudgetItem, error) {
	budget, err := m.GetBudget(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}
	for i := range budget.Items {
		if budget.Items[i].ID == itemID {
			if update.BudgetedAmount != nil {
				budget.Items[i].BudgetedAmount = *update.BudgetedAmount
			}
			return &budget.Items[i], nil
		}
	}
	return nil, domain.ErrBudgetItemNotFound
}

func (m *mockBudgetService) DeleteBudgetItem(ctx context.Context, budgetID, itemID uuid.UUID, userID string) error {
	_, err := m.UpdateBudgetItem(ctx, budgetID, itemID, userID, domain.BudgetItemUpdate{})
	return err
}

func (m *mockBudgetService) CompareBudget(ctx context.Context, budgetID uuid.UUID, userID string) (*domain.BudgetComparison, error) {
	if _, err := m.GetBudget(ctx, budgetID, userID); err != nil {
		return nil, err
	}
	return m.comparison, m.err
}
