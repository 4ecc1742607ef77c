package interfaces

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type IncomeServiceInterface interface {
	CreateIncome(ctx context.Context, income *domain.Income) error
	GetIncome(ctx context.Context, id uuid.UUID, userID string) (*domain.Income, error)
	GetIncomes(ctx context.Context, userID string, filter domain.IncomeFilter) ([]domain.Income, error)
	UpdateIncome(ctx context.Context, id uuid.UUID, userID string, update domain.IncomeUpdate) (*domain.Income, error)
	DeleteIncome(ctx context.Context, id uuid.UUID, userID string) error
	GetIncomeSummary(ctx context.Context, userID, groupBy string, dateRange domain.DateRange) ([]domain.SummaryRow, error)
}

type IncomeHandler struct {
	responder
	service IncomeServiceInterface
}

func NewIncomeHandler(service IncomeServiceInterface, respondJSON api.JSONResponder, respondError api.ErrorResponder) *IncomeHandler {
	if service == nil {
		panic("income service must not be nil")
	}
	return &IncomeHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *IncomeHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	var income domain.Income
	if !h.decode(w, r, &income) {
		return
	}
	income.UserID = userID

	if err := h.service.CreateIncome(r.Context(), &income); err != nil {
		h.serviceError(w, r, err, "Failed to create income")
		return
	}
	h.respondJSON(w, http.StatusCreated, api.Success("Income successfully created.", income))
}

func (h *IncomeHandler) GetIncomes(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	filter := domain.IncomeFilter{Source: api.QueryString(r, "source")}
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
	if filter.TagID, ok = h.queryUUID(w, r, "tag_id"); !ok {
		return
	}

	incomes, err := h.service.GetIncomes(r.Context(), userID, filter)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve incomes")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Incomes retrieved successfully.", incomes))
}

func (h *IncomeHandler) GetIncomeSummary(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	dateRange, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetIncomeSummary(r.Context(), userID, r.URL.Query().Get("group_by"), dateRange)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve income summary")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Income summary retrieved successfully.", summary))
}

func (h *IncomeHandler) GetIncome(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "incomeID")
	if !ok {
		return
	}

	income, err := h.service.GetIncome(r.Context(), id, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve income")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Income retrieved successfully.", income))
}

func (h *IncomeHandler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "incomeID")
	if !ok {
		return
	}

	var update domain.IncomeUpdate
	if !h.decode(w, r, &update) {
		return
	}

	income, err := h.service.UpdateIncome(r.Context(), id, userID, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update income")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Income successfully updated.", income))
}

func (h *IncomeHandler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "incomeID")
	if !ok {
		return
	}

	if err := h.service.DeleteIncome(r.Context(), id, userID); err != nil {
		h.serviceError(w, r, err, "Failed to delete income")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Income successfully deleted.", nil))
}
