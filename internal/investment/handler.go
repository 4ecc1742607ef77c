package investments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	debts "github.com/sebuszqo/FinanceLedger/internal/investment/debt"
	holdings "github.com/sebuszqo/FinanceLedger/internal/investment/holding"
	products "github.com/sebuszqo/FinanceLedger/internal/investment/product"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
	"github.com/sebuszqo/FinanceLedger/internal/pagination"
)

var notFoundErrors = []struct {
	err     error
	message string
}{
	{holdings.ErrInvestmentNotFound, "Investment not found"},
	{products.ErrProductNotFound, "Financial product not found"},
	{debts.ErrDebtNotFound, "Debt not found"},
}

type responder struct {
	respondJSON  api.JSONResponder
	respondError api.ErrorResponder
}

func (h responder) serviceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if financeErrors.IsValidationError(err) {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf.err) {
			h.respondError(w, http.StatusNotFound, nf.message)
			return
		}
	}

	logging.FromContext(r.Context()).Error(fallback, "error", err)
	h.respondError(w, http.StatusInternalServerError, fallback)
}

func (h responder) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h responder) page(w http.ResponseWriter, r *http.Request) (pagination.Page, bool) {
	page, err := pagination.FromRequest(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return pagination.Page{}, false
	}
	return page, true
}

func (h responder) queryBool(w http.ResponseWriter, r *http.Request, key string) (*bool, bool) {
	b, err := api.QueryBool(r, key)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid "+key+" value")
		return nil, false
	}
	return b, true
}

func (h responder) pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	if id, ok := api.PathUUID(r, param); ok {
		return id, true
	}
	id, err := uuid.Parse(r.PathValue(param))
	if err != nil {
		h.respondError(w, http.StatusNotFound, api.NotFoundMessage(param))
		return uuid.Nil, false
	}
	return id, true
}

type InvestmentHandler struct {
	responder
	service holdings.Service
}

func NewInvestmentHandler(service holdings.Service, respondJSON api.JSONResponder, respondError api.ErrorResponder) *InvestmentHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("investment handler dependencies must not be nil")
	}
	return &InvestmentHandler{
		responder: responder{respondJSON: respondJSON, respondError: respondError},
		service:   service,
	}
}

func (h *InvestmentHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	investment := holdings.Investment{IsActive: true}
	if !h.decode(w, r, &investment) {
		return
	}
	investment.UserID = userID

	if err := h.service.CreateInvestment(r.Context(), &investment); err != nil {
		h.serviceError(w, r, err, "Failed to create investment")
		return
	}
	h.respondJSON(w, http.StatusCreated, api.Success("Investment successfully created.", investment))
}

func (h *InvestmentHandler) GetInvestments(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	filter := holdings.Filter{InvestmentType: api.QueryString(r, "investment_type")}
	var ok bool
	if filter.Page, ok = h.page(w, r); !ok {
		return
	}
	if filter.IsActive, ok = h.queryBool(w, r, "is_active"); !ok {
		return
	}

	investments, err := h.service.GetInvestments(r.Context(), userID, filter)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve investments")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Investments retrieved successfully.", investments))
}

func (h *InvestmentHandler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "investmentID")
	if !ok {
		return
	}

	investment, err := h.service.GetInvestment(r.Context(), id, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve investment")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Investment retrieved successfully.", investment))
}

func (h *InvestmentHandler) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "investmentID")
	if !ok {
		return
	}

	var update holdings.InvestmentUpdate
	if !h.decode(w, r, &update) {
		return
	}

	investment, err := h.service.UpdateInvestment(r.Context(), id, userID, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update investment")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Investment successfully updated.", investment))
}

func (h *InvestmentHandler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "investmentID")
	if !ok {
		return
	}

	if err := h.service.DeleteInvestment(r.Context(), id, userID); err != nil {
		h.serviceError(w, r, err, "Failed to delete investment")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Investment successfully deleted.", nil))
}

func (h *InvestmentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve investment summary")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Investment summary retrieved successfully.", summary))
}

func (h *InvestmentHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	performance, err := h.service.GetPerformance(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve investment performance")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Investment performance retrieved successfully.", performance))
}
