package investments

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	holdings "github.com/sebuszqo/FinanceLedger/internal/investment/holding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvestment_DefaultsActive(t *testing.T) {
	service := &mockInvestmentService{}
	handler := NewInvestmentHandler(service, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.CreateInvestment(rr, newRequest(t, http.MethodPost, "/investments", map[string]any{
		"name":            "S&P 500",
		"investment_type": "etf",
		"amount_invested": "1500.00",
		"purchase_date":   "2024-05-02T00:00:00Z",
	}))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, service.created)
	assert.True(t, service.created.IsActive)
	assert.Equal(t, testUserID, service.created.UserID)
	assert.Equal(t, "Investment successfully created.", decodeEnvelope(t, rr).Message)
}

func TestCreateInvestment_InvalidBody(t *testing.T) {
	handler := NewInvestmentHandler(&mockInvestmentService{}, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.CreateInvestment(rr, newRequest(t, http.MethodPost, "/investments", "{not json"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid request body", decodeEnvelope(t, rr).Message)
}

func TestCreateInvestment_ValidationError(t *testing.T) {
	service := &mockInvestmentService{err: financeErrors.NewValidationError("Amount invested must be greater than zero")}
	handler := NewInvestmentHandler(service, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.CreateInvestment(rr, newRequest(t, http.MethodPost, "/investments", map[string]any{"name": "x"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Amount invested must be greater than zero", decodeEnvelope(t, rr).Message)
}

func TestGetInvestments_Filters(t *testing.T) {
	service := &mockInvestmentService{}
	handler := NewInvestmentHandler(service, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.GetInvestments(rr, newRequest(t, http.MethodGet, "/investments?investment_type=stock&is_active=false&skip=10", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, service.lastFilter.InvestmentType)
	assert.Equal(t, "stock", *service.lastFilter.InvestmentType)
	require.NotNil(t, service.lastFilter.IsActive)
	assert.False(t, *service.lastFilter.IsActive)
	assert.Equal(t, 10, service.lastFilter.Page.Skip)

	rr = httptest.NewRecorder()
	handler.GetInvestments(rr, newRequest(t, http.MethodGet, "/investments?is_active=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid is_active value", decodeEnvelope(t, rr).Message)
}

func TestGetInvestment_NotFound(t *testing.T) {
	service := &mockInvestmentService{err: holdings.ErrInvestmentNotFound}
	handler := NewInvestmentHandler(service, api.RespondJSON, api.RespondError)

	req := newRequest(t, http.MethodGet, "/investments/x", nil)
	req.SetPathValue("investmentID", uuid.NewString())
	rr := httptest.NewRecorder()
	handler.GetInvestment(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Investment not found", decodeEnvelope(t, rr).Message)
}

func TestGetInvestment_MalformedID(t *testing.T) {
	handler := NewInvestmentHandler(&mockInvestmentService{}, api.RespondJSON, api.RespondError)

	req := newRequest(t, http.MethodGet, "/investments/abc", nil)
	req.SetPathValue("investmentID", "abc")
	rr := httptest.NewRecorder()
	handler.GetInvestment(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteInvestment_InternalError(t *testing.T) {
	service := &mockInvestmentService{err: errors.New("connection reset")}
	handler := NewInvestmentHandler(service, api.RespondJSON, api.RespondError)

	req := newRequest(t, http.MethodDelete, "/investments/x", nil)
	req.SetPathValue("investmentID", uuid.NewString())
	rr := httptest.NewRecorder()
	handler.DeleteInvestment(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to delete investment", decodeEnvelope(t, rr).Message)
}

func TestGetPerformance(t *testing.T) {
	service := &mockInvestmentService{performance: &holdings.Performance{
		TotalInvested:         decimal.NewFromInt(1000),
		TotalCurrentValue:     decimal.NewFromInt(1100),
		TotalPerformance:      decimal.NewFromInt(100),
		PerformancePercentage: decimal.NewFromInt(10),
	}}
	handler := NewInvestmentHandler(service, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.GetPerformance(rr, newRequest(t, http.MethodGet, "/investments/performance", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got holdings.Performance
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &got))
	assert.True(t, decimal.NewFromInt(10).Equal(got.PerformancePercentage))
}

func TestHandlers_RequireUser(t *testing.T) {
	handler := NewInvestmentHandler(&mockInvestmentService{}, api.RespondJSON, api.RespondError)

	rr := httptest.NewRecorder()
	handler.GetSummary(rr, httptest.NewRequest(http.MethodGet, "/investments/summary", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
