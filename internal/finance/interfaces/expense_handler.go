package interfaces

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type ExpenseServiceInterface interface {
	CreateExpense(ctx context.Context, expense *domain.Expense) error
	GetExpense(ctx context.Context, id uuid.UUID, userID string) (*domain.Expense, error)
	GetExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, id uuid.UUID, userID string, update domain.ExpenseUpdate) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID, userID string) error
	GetExpenseSummary(ctx context.Context, userID, groupBy string, dateRange domain.DateRange) ([]domain.SummaryRow, error)
}

type ExpenseHandler struct {
	responder
	service ExpenseServiceInterface
}

func NewExpenseHandler(service ExpenseServiceInterface, respondJSON api.JSONResponder, respondError api.ErrorResponder) *ExpenseHandler {
	if service == nil {
		panic("expense service must not be nil")
	}
	return &ExpenseHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	var expense domain.Expense
	if !h.decode(w, r, &expense) {
		return
	}
	expense.UserID = userID

	if err := h.service.CreateExpense(r.Context(), &expense); err != nil {
		h.serviceError(w, r, err, "Failed to create expense")
		return
	}
	h.respondJSON(w, http.StatusCreated, api.Success("Expense successfully created.", expense))
}

func (h *ExpenseHandler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	var filter domain.ExpenseFilter
	var ok bool
	if filter.Page, ok = h.page(w, r); !ok {
		return
	}
	if filter.Range, ok = h.dateRange(w, r); !ok {
		return
	}
	if filter.CategoryID, ok = h.queryUUID(w, r, "category_id"); !ok {
		return
	}
	if filter.PaymentMethodID, ok = h.queryUUID(w, r, "payment_method_id"); !ok {
		return
	}
	if filter.TagID, ok = h.queryUUID(w, r, "tag_id"); !ok {
		return
	}

	expenses, err := h.service.GetExpenses(r.Context(), userID, filter)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve expenses")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Expenses retrieved successfully.", expenses))
}

func (h *ExpenseHandler) GetExpenseSummary(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	dateRange, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetExpenseSummary(r.Context(), userID, r.URL.Query().Get("group_by"), dateRange)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve expense summary")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Expense summary retrieved successfully.", summary))
}

func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "expenseID")
	if !ok {
		return
	}

	expense, err := h.service.GetExpense(r.Context(), id, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve expense")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Expense retrieved successfully.", expense))
}

func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "expenseID")
	if !ok {
		return
	}

	var update domain.ExpenseUpdate
	if !h.decode(w, r, &update) {
		return
	}

	expense, err := h.service.UpdateExpense(r.Context(), id, userID, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update expense")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Expense successfully updated.", expense))
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "expenseID")
	if !ok {
		return
	}

	if err := h.service.DeleteExpense(r.Context(), id, userID); err != nil {
		h.serviceError(w, r, err, "Failed to delete expense")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Expense successfully deleted.", nil))
}
