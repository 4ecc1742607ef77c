package interfaces

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIncome(t *testing.T) {
	service := &mockIncomeService{}
	handler := NewIncomeHandler(service, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.CreateIncome(rr, newRequest(t, http.MethodPost, "/incomes", map[string]any{
		"amount":      "2500",
		"description": "March salary",
		"source":      "Acme Corp",
		"date":        "2024-03-31T00:00:00Z",
	}))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, service.created)
	assert.Equal(t, testUserID, service.created.UserID)
	assert.Equal(t, "Acme Corp", service.created.Source)
	assert.Nil(t, service.created.CategoryID)
}

func TestGetIncomes_Filters(t *testing.T) {
	service := &mockIncomeService{}
	handler := NewIncomeHandler(service, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.GetIncomes(rr, newRequest(t, http.MethodGet, "/incomes?source=Acme&end_date=2024-06-30", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, service.lastFilter.Source)
	assert.Equal(t, "Acme", *service.lastFilter.Source)
	assert.Nil(t, service.lastFilter.Range.Start)
	assert.NotNil(t, service.lastFilter.Range.End)
	assert.Equal(t, 100, service.lastFilter.Page.Limit)
}

func TestGetIncomes_InvalidTag(t *testing.T) {
	handler := NewIncomeHandler(&mockIncomeService{}, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.GetIncomes(rr, newRequest(t, http.MethodGet, "/incomes?tag_id=xyz", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid tag_id value", decodeEnvelope(t, rr).Message)
}

func TestGetIncomeSummary_PassesGroupBy(t *testing.T) {
	service := &mockIncomeService{}
	handler := NewIncomeHandler(service, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.GetIncomeSummary(rr, newRequest(t, http.MethodGet, "/incomes/summary?group_by=category", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.IncomeGroupByCategory, service.lastGroupBy)
}

func TestGetIncome_NotFound(t *testing.T) {
	handler := NewIncomeHandler(&mockIncomeService{}, api.RespondJSON, api.RespondError)

	req := newRequest(t, http.MethodGet, "/incomes/x", nil)
	req.SetPathValue("incomeID", uuid.NewString())
	rr := httptest.NewRecorder()
	handler.GetIncome(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Income not found", decodeEnvelope(t, rr).Message)
}
