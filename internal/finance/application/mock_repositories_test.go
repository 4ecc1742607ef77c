package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type mockCategoryRepository struct {
	categories map[uuid.UUID]domain.Category
	inUse      map[uuid.UUID]bool
}

func newMockCategoryRepository(categories ...domain.Category) *mockCategoryRepository {
	repo := &mockCategoryRepository{categories: map[uuid.UUID]domain.Category{}, inUse: map[uuid.UUID]bool{}}
	for _, c := range categories {
		repo.categories[c.ID] = c
	}
	return repo
}

func (m *mockCategoryRepository) Create(_ context.Context, c *domain.Category) error {
	m.categories[c.ID] = *c
	return nil
}

func (m *mockCategoryRepository) CreateMany(_ context.Context, categories []domain.Category) error {
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	return nil
}

func (m *mockCategoryRepository) FindByID(_ context.Context, id uuid.UUID, userID string) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *mockCategoryRepository) List(_ context.Context, userID, categoryType string) ([]domain.Category, error) {
	var result []domain.Category
	for _, c := range m.categories {
		if c.UserID == userID && (categoryType == "" || c.CategoryType == categoryType) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCategoryRepository) Update(_ context.Context, c *domain.Category) error {
	m.categories[c.ID] = *c
	return nil
}

func (m *mockCategoryRepository) Delete(_ context.Context, id uuid.UUID, _ string) error {
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) HasSubcategories(_ context.Context, id uuid.UUID, userID string) (bool, error) {
	for _, c := range m.categories {
		if c.UserID == userID && c.ParentID != nil && *c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCategoryRepository) IsInUse(_ context.Context, id uuid.UUID, _ string) (bool, error) {
	return m.inUse[id], nil
}

func (m *mockCategoryRepository) Exists(_ context.Context, id uuid.UUID, userID, categoryType string) (bool, error) {
	c, ok := m.categories[id]
	return ok && c.UserID == userID && c.CategoryType == categoryType, nil
}

type mockTagRepository struct {
	tags  map[uuid.UUID]domain.Tag
	inUse map[uuid.UUID]bool
}

func newMockTagRepository(tags ...domain.Tag) *mockTagRepository {
	repo := &mockTagRepository{tags: map[uuid.UUID]domain.Tag{}, inUse: map[uuid.UUID]bool{}}
	for _, t := range tags {
		repo.tags[t.ID] = t
	}
	return repo
}

func (m *mockTagRepository) Create(_ context.Context, t *domain.Tag) error {
	m.tags[t.ID] = *t
	return nil
}

func (m *mockTagRepository) FindByID(_ context.Context, id uuid.UUID, userID string) (*domain.Tag, error) {
	t, ok := m.tags[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTagNotFound
	}
	return &t, nil
}

func (m *mockTagRepository) FindByName(_ context.Context, userID, name string) (*domain.Tag, error) {
	for _, t := range m.tags {
		if t.UserID == userID && t.Name == name {
			return &t, nil
		}
	}
	return nil, domain.ErrTagNotFound
}

func (m *mockTagRepository) List(_ context.Context, userID string) ([]domain.Tag, error) {
	var result []domain.Tag
	for _, t := range m.tags {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTagRepository) ListWithUsage(ctx context.Context, userID string) ([]domain.TagWithUsage, error) {
	tags, _ := m.List(ctx, userID)
	result := make([]domain.TagWithUsage, 0, len(tags))
	for _, t := range tags {
		result = append(result, domain.TagWithUsage{Tag: t})
	}
	return result, nil
}

func (m *mockTagRepository) Update(_ context.Context, t *domain.Tag) error {
	m.tags[t.ID] = *t
	return nil
}

func (m *mockTagRepository) Delete(_ context.Context, id uuid.UUID, _ string) error {
	delete(m.tags, id)
	return nil
}

func (m *mockTagRepository) IsInUse(_ context.Context, id uuid.UUID, _ string) (bool, error) {
	return m.inUse[id], nil
}

func (m *mockTagRepository) CountOwned(_ context.Context, ids []uuid.UUID, userID string) (int, error) {
	count := 0
	for _, id := range ids {
		if t, ok := m.tags[id]; ok && t.UserID == userID {
			count++
		}
	}
	return count, nil
}

type mockPaymentRepository struct {
	methods map[uuid.UUID]domain.PaymentMethod
	inUse   map[uuid.UUID]bool
}

func newMockPaymentRepository(methods ...domain.PaymentMethod) *mockPaymentRepository {
	repo := &mockPaymentRepository{methods: map[uuid.UUID]domain.PaymentMethod{}, inUse: map[uuid.UUID]bool{}}
	for _, p := range methods {
		repo.methods[p.ID] = p
	}
	return repo
}

func (m *mockPaymentRepository) Create(_ context.Context, p *domain.PaymentMethod) error {
	m.methods[p.ID] = *p
	return nil
}

func (m *mockPaymentRepository) FindByID(_ context.Context, id uuid.UUID, userID string) (*domain.PaymentMethod, error) {
	p, ok := m.methods[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrPaymentMethodNotFound
	}
	return &p, nil
}

func (m *mockPaymentRepository) List(_ context.Context, userID string, _ domain.PaymentMethodFilter) ([]domain.PaymentMethod, error) {
	var result []domain.PaymentMethod
	for _, p := range m.methods {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPaymentRepository) Update(_ context.Context, p *domain.PaymentMethod) error {
	m.methods[p.ID] = *p
	return nil
}

func (m *mockPaymentRepository) Delete(_ context.Context, id uuid.UUID, _ string) error {
	delete(m.methods, id)
	return nil
}

func (m *mockPaymentRepository) IsInUse(_ context.Context, id uuid.UUID, _ string) (bool, error) {
	return m.inUse[id], nil
}

func (m *mockPaymentRepository) Exists(_ context.Context, id uuid.UUID, userID string) (bool, error) {
	p, ok := m.methods[id]
	return ok && p.UserID == userID, nil
}

type mockExpenseRepository struct {
	expenses     map[uuid.UUID]domain.Expense
	summaryGroup string
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{expenses: map[uuid.UUID]domain.Expense{}}
}

func (m *mockExpenseRepository) Create(_ context.Context, e *domain.Expense) error {
	m.expenses[e.ID] = *e
	return nil
}

func (m *mockExpenseRepository) FindByID(_ context.Context, id uuid.UUID, userID string) (*domain.Expense, error) {
	e, ok := m.expenses[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrExpenseNotFound
	}
	return &e, nil
}

func (m *mockExpenseRepository) List(_ context.Context, userID string, _ domain.ExpenseFilter) ([]domain.Expense, error) {
	var result []domain.Expense
	for _, e := range m.expenses {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockExpenseRepository) Update(_ context.Context, e *domain.Expense) error {
	m.expenses[e.ID] = *e
	return nil
}

func (m *mockExpenseRepository) Delete(_ context.Context, id uuid.UUID, userID string) error {
	e, ok := m.expenses[id]
	if !ok || e.UserID != userID {
		return domain.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *mockExpenseRepository) Summary(_ context.Context, _, groupBy string, _ domain.DateRange) ([]domain.SummaryRow, error) {
	m.summaryGroup = groupBy
	return []domain.SummaryRow{}, nil
}

func (m *mockExpenseRepository) SpentByCategory(_ context.Context, userID string, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	spent := map[uuid.UUID]decimal.Decimal{}
	for _, e := range m.expenses {
		if e.UserID != userID || e.Date.Before(from) || !e.Date.Before(to) {
			continue
		}
		spent[e.CategoryID] = spent[e.CategoryID].Add(e.Amount)
	}
	return spent, nil
}

type mockIncomeRepository struct {
	incomes      map[uuid.UUID]domain.Income
	summaryGroup string
}

func newMockIncomeRepository() *mockIncomeRepository {
	return &mockIncomeRepository{incomes: map[uuid.UUID]domain.Income{}}
}

func (m *mockIncomeRepository) Create(_ context.Context, i *domain.Income) error {
	m.incomes[i.ID] = *i
	return nil
}

func (m *mockIncomeRepository) FindByID(_ context.Context, id uuid.UUID, userID string) (*domain.Income, error) {
	i, ok := m.incomes[id]
	if !ok || i.UserID != userID {
		return nil, domain.ErrIncomeNotFound
	}
	return &i, nil
}

func (m *mockIncomeRepository) List(_ context.Context, userID string, _ domain.IncomeFilter) ([]domain.Income, error) {
	var result []domain.Income
	for _, i := range m.incomes {
		if i.UserID == userID {
			result = append(result, i)
		}
	}
	return result, nil
}

func (m *mockIncomeRepository) Update(_ context.Context, i *domain.Income) error {
	m.incomes[i.ID] = *i
	return nil
}

func (m *mockIncomeRepository) Delete(_ context.Context, id uuid.UUID, _ string) error {
	delete(m.incomes, id)
	return nil
}

func (m *mockIncomeRepository) Summary(_ context.Context, _, groupBy string, _ domain.DateRange) ([]domain.SummaryRow, error) {
	m.summaryGroup = groupBy
	return []domain.SummaryRow{}, nil
}

type mockBudgetRepository struct {
	budgets map[uuid.UUID]domain.Budget
}

func newMockBudgetRepository() *mockBudgetRepository {
	return &mockBudgetRepository{budgets: map[uuid.UUID]domain.Budget{}}
}

func (m *mockBudgetRepository) Create(_ context.Context, b *domain.Budget) error {
	stored := *b
	stored.Items = append([]domain.BudgetItem(nil), b.Items...)
	m.budgets[b.ID] = stored
	return nil
}

func (m *mockBudgetRepository) FindByID(_ context.Context, id uuid.UUID, userID string) (*domain.Budget, error) {
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	b.Items = append([]domain.BudgetItem(nil), b.Items...)
	return &b, nil
}

func (m *mockBudgetRepository) List(_ context.Context, userID string, _ domain.BudgetFilter) ([]domain.Budget, error) {
	var result []domain.Budget
	for _, b := range m.budgets {
		if b.UserID == userID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockBudgetRepository) ListActive(_ context.Context) ([]domain.Budget, error) {
	var result []domain.Budget
	for _, b := range m.budgets {
		if b.IsActive {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockBudgetRepository) Update(_ context.Context, b *domain.Budget) error {
	m.budgets[b.ID] = *b
	return nil
}

func (m *mockBudgetRepository) Delete(_ context.Context, id uuid.UUID, _ string) error {
	delete(m.budgets, id)
	return nil
}

func (m *mockBudgetRepository) AddItem(_ context.Context, userID string, item *domain.BudgetItem) error {
	b, ok := m.budgets[item.BudgetID]
	if !ok || b.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	b.Items = append(b.Items, *item)
	b.RecalculateTotal()
	m.budgets[b.ID] = b
	return nil
}

func (m *mockBudgetRepository) FindItem(_ context.Context, budgetID, itemID uuid.UUID, userID string) (*domain.BudgetItem, error) {
	b, ok := m.budgets[budgetID]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetItemNotFound
	}
	for _, item := range b.Items {
		if item.ID == itemID {
			return &item, nil
		}
	}
	return nil, domain.ErrBudgetItemNotFound
}

func (m *mockBudgetRepository) UpdateItem(_ context.Context, _ string, item *domain.BudgetItem) error {
	b := m.budgets[item.BudgetID]
	for i := range b.Items {
		if b.Items[i].ID == item.ID {
			b.Items[i] = *item
		}
	}
	b.RecalculateTotal()
	m.budgets[b.ID] = b
	return nil
}

func (m *mockBudgetRepository) DeleteItem(_ context.Context, budgetID, itemID uuid.UUID, _ string) error {
	b, ok := m.budgets[budgetID]
	if !ok {
		return domain.ErrBudgetNotFound
	}
	items := b.Items[:0]
	found := false
	for _, item := range b.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return domain.ErrBudgetItemNotFound
	}
	b.Items = items
	b.RecalculateTotal()
	m.budgets[b.ID] = b
	return nil
}

func (m *mockBudgetRepository) UpdateTotalSpent(_ context.Context, budgetID uuid.UUID, _ string, totalSpent decimal.Decimal) error {
	b, ok := m.budgets[budgetID]
	if !ok {
		return domain.ErrBudgetNotFound
	}
	b.TotalSpent = totalSpent
	m.budgets[budgetID] = b
	return nil
}
