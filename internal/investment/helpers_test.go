package investments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	debts "github.com/sebuszqo/FinanceLedger/internal/investment/debt"
	holdings "github.com/sebuszqo/FinanceLedger/internal/investment/holding"
	products "github.com/sebuszqo/FinanceLedger/internal/investment/product"
	"github.com/stretchr/testify/require"
)

const testUserID = "3c2a7e54-1f0d-4b8e-9a61-5d7c0e2f4b13"

func newRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(api.WithUserID(req.Context(), testUserID))
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

type mockInvestmentService struct {
	holdings.Service
	created     *holdings.Investment
	lastFilter  holdings.Filter
	performance *holdings.Performance
	err         error
}

func (m *mockInvestmentService) CreateInvestment(_ context.Context, investment *holdings.Investment) error {
	if m.err != nil {
		return m.err
	}
	investment.ID = uuid.New()
	m.created = investment
	return nil
}

func (m *mockInvestmentService) GetInvestment(context.Context, uuid.UUID, string) (*holdings.Investment, error) {
	return nil, m.err
}

func (m *mockInvestmentService) GetInvestments(_ context.Context, _ string, filter holdings.Filter) ([]holdings.Investment, error) {
	m.lastFilter = filter
	return []holdings.Investment{}, m.err
}

func (m *mockInvestmentService) DeleteInvestment(context.Context, uuid.UUID, string) error {
	return m.err
}

func (m *mockInvestmentService) GetPerformance(context.Context, string) (*holdings.Performance, error) {
	return m.performance, m.err
}

type mockProductService struct {
	products.Service
	lastFilter  products.Filter
	lastGroupBy string
	balance     []products.Balance
	err         error
}

func (m *mockProductService) GetProducts(_ context.Context, _ string, filter products.Filter) ([]products.Product, error) {
	m.lastFilter = filter
	return []products.Product{}, m.err
}

func (m *mockProductService) UpdateProduct(context.Context, uuid.UUID, string, products.ProductUpdate) (*products.Product, error) {
	return nil, m.err
}

func (m *mockProductService) GetSummary(_ context.Context, _ string, groupBy string) ([]products.SummaryRow, error) {
	m.lastGroupBy = groupBy
	return []products.SummaryRow{}, m.err
}

func (m *mockProductService) GetBalance(context.Context, string) ([]products.Balance, error) {
	return m.balance, m.err
}

type mockDebtService struct {
	debts.Service
	lastFilter debts.Filter
	paidOff    *debts.Debt
	err        error
}

func (m *mockDebtService) GetDebts(_ context.Context, _ string, filter debts.Filter) ([]debts.Debt, error) {
	m.lastFilter = filter
	return []debts.Debt{}, m.err
}

func (m *mockDebtService) PayOffDebt(context.Context, uuid.UUID, string) (*debts.Debt, error) {
	return m.paidOff, m.err
}

func (m *mockDebtService) GetSummary(context.Context, string, string) ([]debts.SummaryRow, error) {
	return nil, m.err
}
