package interfaces

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type BudgetServiceInterface interface {
	CreateBudget(ctx context.Context, budget *domain.Budget) error
	GetBudget(ctx context.Context, id uuid.UUID, userID string) (*domain.Budget, error)
	GetBudgets(ctx context.Context, userID string, filter domain.BudgetFilter) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, id uuid.UUID, userID string, update domain.BudgetUpdate) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, id uuid.UUID, userID string) error
	AddBudgetItem(ctx context.Context, budgetID uuid.UUID, userID string, item *domain.BudgetItem) (*domain.BudgetItem, error)
	UpdateBudgetItem(ctx context.Context, budgetID, itemID uuid.UUID, userID string, update domain.BudgetItemUpdate) (*domain.BudgetItem, error)
	DeleteBudgetItem(ctx context.Context, budgetID, itemID uuid.UUID, userID string) error
	CompareBudget(ctx context.Context, budgetID uuid.UUID, userID string) (*domain.BudgetComparison, error)
}

type BudgetHandler struct {
	responder
	service BudgetServiceInterface
}

func NewBudgetHandler(service BudgetServiceInterface, respondJSON api.JSONResponder, respondError api.ErrorResponder) *BudgetHandler {
	if service == nil {
		panic("budget service must not be nil")
	}
	return &BudgetHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	budget := domain.Budget{IsActive: true}
	if !h.decode(w, r, &budget) {
		return
	}
	budget.UserID = userID

	if err := h.service.CreateBudget(r.Context(), &budget); err != nil {
		h.serviceError(w, r, err, "Failed to create budget")
		return
	}
	h.respondJSON(w, http.StatusCreated, api.Success("Budget successfully created.", budget))
}

func (h *BudgetHandler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	var filter domain.BudgetFilter
	var ok bool
	if filter.Page, ok = h.page(w, r); !ok {
		return
	}
	if filter.IsActive, ok = h.queryBool(w, r, "is_active"); !ok {
		return
	}

	budgets, err := h.service.GetBudgets(r.Context(), userID, filter)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve budgets")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Budgets retrieved successfully.", budgets))
}

func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "budgetID")
	if !ok {
		return
	}

	budget, err := h.service.GetBudget(r.Context(), id, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve budget")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Budget retrieved successfully.", budget))
}

func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "budgetID")
	if !ok {
		return
	}

	var update domain.BudgetUpdate
	if !h.decode(w, r, &update) {
		return
	}

	budget, err := h.service.UpdateBudget(r.Context(), id, userID, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update budget")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Budget successfully updated.", budget))
}

func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "budgetID")
	if !ok {
		return
	}

	if err := h.service.DeleteBudget(r.Context(), id, userID); err != nil {
		h.serviceError(w, r, err, "Failed to delete budget")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Budget successfully deleted.", nil))
}

func (h *BudgetHandler) AddBudgetItem(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	budgetID, ok := h.pathID(w, r, "budgetID")
	if !ok {
		return
	}

	var item domain.BudgetItem
	if !h.decode(w, r, &item) {
		return
	}

	created, err := h.service.AddBudgetItem(r.Context(), budgetID, userID, &item)
	if err != nil {
		h.serviceError(w, r, err, "Failed to add budget item")
		return
	}
	h.respondJSON(w, http.StatusCreated, api.Success("Budget item successfully created.", created))
}

func (h *BudgetHandler) UpdateBudgetItem(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	budgetID, ok := h.pathID(w, r, "budgetID")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemID")
	if !ok {
		return
	}

	var update domain.BudgetItemUpdate
	if !h.decode(w, r, &update) {
		return
	}

	item, err := h.service.UpdateBudgetItem(r.Context(), budgetID, itemID, userID, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update budget item")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Budget item successfully updated.", item))
}

func (h *BudgetHandler) DeleteBudgetItem(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	budgetID, ok := h.pathID(w, r, "budgetID")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.service.DeleteBudgetItem(r.Context(), budgetID, itemID, userID); err != nil {
		h.serviceError(w, r, err, "Failed to delete budget item")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Budget item successfully deleted.", nil))
}

func (h *BudgetHandler) CompareBudget(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	budgetID, ok := h.pathID(w, r, "budgetID")
	if !ok {
		return
	}

	comparison, err := h.service.CompareBudget(r.Context(), budgetID, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to compare budget")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Budget comparison retrieved successfully.", comparison))
}
