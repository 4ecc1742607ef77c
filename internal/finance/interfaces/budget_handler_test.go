package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budgetWithItem() (domain.Budget, uuid.UUID) {
	itemID := uuid.New()
	budget := domain.Budget{
		ID:        uuid.New(),
		UserID:    testUserID,
		Name:      "March",
		StartDate: domain.NewDate(2024, 3, 1),
		EndDate:   domain.NewDate(2024, 3, 31),
		Currency:  "COP",
		IsActive:  true,
		Items: []domain.BudgetItem{
			{ID: itemID, CategoryID: uuid.New(), BudgetedAmount: decimal.NewFromInt(300)},
		},
	}
	budget.RecalculateTotal()
	return budget, itemID
}

func TestCreateBudget_SumsItems(t *testing.T) {
	handler := NewBudgetHandler(&mockBudgetService{}, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.CreateBudget(rr, newRequest(t, http.MethodPost, "/budgets", map[string]any{
		"name":       "April",
		"start_date": "2024-04-01",
		"end_date":   "2024-04-30",
		"items": []map[string]any{
			{"category_id": uuid.New(), "budgeted_amount": "150.25"},
			{"category_id": uuid.New(), "budgeted_amount": "49.75"},
		},
	}))

	require.Equal(t, http.StatusCreated, rr.Code)
	var created domain.Budget
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &created))
	assert.True(t, created.IsActive)
	assert.Equal(t, "2024-04-01", created.StartDate.String())
	assert.True(t, decimal.NewFromInt(200).Equal(created.TotalBudgeted))
}

func TestCreateBudget_IndexedValidationError(t *testing.T) {
	service := &mockBudgetService{err: financeErrors.NewIndexedValidationError(1, "Invalid category")}
	handler := NewBudgetHandler(service, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.CreateBudget(rr, newRequest(t, http.MethodPost, "/budgets", map[string]any{"name": "April"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Validation error at item 1: Invalid category", decodeEnvelope(t, rr).Message)
}

func TestGetBudgets_Filters(t *testing.T) {
	service := &mockBudgetService{}
	handler := NewBudgetHandler(service, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.GetBudgets(rr, newRequest(t, http.MethodGet, "/budgets?is_active=true&limit=20", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, service.lastFilter.IsActive)
	assert.True(t, *service.lastFilter.IsActive)
	assert.Equal(t, 20, service.lastFilter.Page.Limit)
}

func TestAddBudgetItem(t *testing.T) {
	budget, _ := budgetWithItem()
	service := &mockBudgetService{budgets: []domain.Budget{budget}}
	handler := NewBudgetHandler(service, api.RespondJSON, api.RespondError)

	req := newRequest(t, http.MethodPost, "/budgets/x/items", map[string]any{
		"category_id":     uuid.New(),
		"budgeted_amount": "75",
	})
	req.SetPathValue("budgetID", budget.ID.String())
	rr := httptest.NewRecorder()
	handler.AddBudgetItem(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, service.addedItem)
	assert.Equal(t, budget.ID, service.addedItem.BudgetID)
}

func TestAddBudgetItem_BudgetNotFound(t *testing.T) {
	handler := NewBudgetHandler(&mockBudgetService{}, api.RespondJSON, api.RespondError)

	req := newRequest(t, http.MethodPost, "/budgets/x/items", map[string]any{"budgeted_amount": "75"})
	req.SetPathValue("budgetID", uuid.NewString())
	rr := httptest.NewRecorder()
	handler.AddBudgetItem(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Budget not found", decodeEnvelope(t, rr).Message)
}

func TestUpdateBudgetItem(t *testing.T) {
	budget, itemID := budgetWithItem()
	service := &mockBudgetService{budgets: []domain.Budget{budget}}
	handler := NewBudgetHandler(service, api.RespondJSON, api.RespondError)

	req := newRequest(t, http.MethodPut, "/budgets/x/items/y", map[string]any{"budgeted_amount": "420"})
	req.SetPathValue("budgetID", budget.ID.String())
	req.SetPathValue("itemID", itemID.String())
	rr := httptest.NewRecorder()
	handler.UpdateBudgetItem(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var item domain.BudgetItem
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &item))
	assert.True(t, decimal.NewFromInt(420).Equal(item.BudgetedAmount))
}

func TestDeleteBudgetItem_UnknownItem(t *testing.T) {
	budget, _ := budgetWithItem()
	handler := NewBudgetHandler(&mockBudgetService{budgets: []domain.Budget{budget}}, api.RespondJSON, api.RespondError)

	req := newRequest(t, http.MethodDelete, "/budgets/x/items/y", nil)
	req.SetPathValue("budgetID", budget.ID.String())
	req.SetPathValue("itemID", uuid.NewString())
	rr := httptest.NewRecorder()
	handler.DeleteBudgetItem(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Budget item not found", decodeEnvelope(t, rr).Message)
}

func TestCompareBudget(t *testing.T) {
	budget, _ := budgetWithItem()
	spent := map[uuid.UUID]decimal.Decimal{budget.Items[0].CategoryID: decimal.NewFromInt(330)}
	comparison := domain.CompareBudget(&budget, spent)
	service := &mockBudgetService{budgets: []domain.Budget{budget}, comparison: &comparison}
	handler := NewBudgetHandler(service, api.RespondJSON, api.RespondError)

	req := newRequest(t, http.MethodGet, "/budgets/x/comparison", nil)
	req.SetPathValue("budgetID", budget.ID.String())
	rr := httptest.NewRecorder()
	handler.CompareBudget(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.BudgetComparison
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &got))
	assert.Equal(t, 1, got.CategoriesOverBudget)
	require.Len(t, got.Comparisons, 1)
	assert.Equal(t, domain.StatusOverBudget, got.Comparisons[0].Status)
	assert.True(t, decimal.NewFromInt(-30).Equal(got.TotalRemaining))
}
