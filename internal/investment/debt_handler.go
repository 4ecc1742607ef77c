package investments

import (
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/api"
	debts "github.com/sebuszqo/FinanceLedger/internal/investment/debt"
)

type DebtHandler struct {
	responder
	service debts.Service
}

func NewDebtHandler(service debts.Service, respondJSON api.JSONResponder, respondError api.ErrorResponder) *DebtHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("debt handler dependencies must not be nil")
	}
	return &DebtHandler{
		responder: responder{respondJSON: respondJSON, respondError: respondError},
		service:   service,
	}
}

func (h *DebtHandler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	var debt debts.Debt
	if !h.decode(w, r, &debt) {
		return
	}
	debt.UserID = userID

	if err := h.service.CreateDebt(r.Context(), &debt); err != nil {
		h.serviceError(w, r, err, "Failed to create debt")
		return
	}
	h.respondJSON(w, http.StatusCreated, api.Success("Debt successfully created.", debt))
}

func (h *DebtHandler) GetDebts(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	filter := debts.Filter{
		DebtType: api.QueryString(r, "debt_type"),
		Lender:   api.QueryString(r, "lender"),
	}
	var ok bool
	if filter.Page, ok = h.page(w, r); !ok {
		return
	}
	if filter.IsPaidOff, ok = h.queryBool(w, r, "is_paid_off"); !ok {
		return
	}

	list, err := h.service.GetDebts(r.Context(), userID, filter)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve debts")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Debts retrieved successfully.", list))
}

func (h *DebtHandler) GetDebt(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "debtID")
	if !ok {
		return
	}

	debt, err := h.service.GetDebt(r.Context(), id, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve debt")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Debt retrieved successfully.", debt))
}

func (h *DebtHandler) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "debtID")
	if !ok {
		return
	}

	var update debts.DebtUpdate
	if !h.decode(w, r, &update) {
		return
	}

	debt, err := h.service.UpdateDebt(r.Context(), id, userID, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update debt")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Debt successfully updated.", debt))
}

func (h *DebtHandler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "debtID")
	if !ok {
		return
	}

	if err := h.service.DeleteDebt(r.Context(), id, userID); err != nil {
		h.serviceError(w, r, err, "Failed to delete debt")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Debt successfully deleted.", nil))
}

func (h *DebtHandler) PayOffDebt(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "debtID")
	if !ok {
		return
	}

	debt, err := h.service.PayOffDebt(r.Context(), id, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to pay off debt")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Debt marked as paid off.", debt))
}

func (h *DebtHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID, r.URL.Query().Get("group_by"))
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve debt summary")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Debt summary retrieved successfully.", summary))
}

func (h *DebtHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve debt balance")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Debt balance retrieved successfully.", balance))
}
