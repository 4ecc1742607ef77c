package interfaces

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id uuid.UUID, userID string) (*domain.Category, error)
	GetCategories(ctx context.Context, userID, categoryType string) ([]domain.Category, error)
	GetCategoryTree(ctx context.Context, userID, categoryType string) ([]*domain.CategoryNode, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, userID string, update domain.CategoryUpdate) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID, userID string) error
}

type CategoryHandler struct {
	responder
	service CategoryServiceInterface
}

func NewCategoryHandler(service CategoryServiceInterface, respondJSON api.JSONResponder, respondError api.ErrorResponder) *CategoryHandler {
	if service == nil {
		panic("category service must not be nil")
	}
	return &CategoryHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	category := domain.Category{IsActive: true}
	if !h.decode(w, r, &category) {
		return
	}
	category.UserID = userID

	if err := h.service.CreateCategory(r.Context(), &category); err != nil {
		h.serviceError(w, r, err, "Failed to create category")
		return
	}
	h.respondJSON(w, http.StatusCreated, api.Success("Category successfully created.", category))
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	categoryType := r.URL.Query().Get("category_type")
	if categoryType != "" && !domain.IsValidCategoryType(categoryType) {
		h.respondError(w, http.StatusBadRequest, "Invalid category_type value")
		return
	}
	nested, ok := h.queryBool(w, r, "include_subcategories")
	if !ok {
		return
	}

	if nested != nil && *nested {
		tree, err := h.service.GetCategoryTree(r.Context(), userID, categoryType)
		if err != nil {
			h.serviceError(w, r, err, "Failed to retrieve categories")
			return
		}
		h.respondJSON(w, http.StatusOK, api.Success("Categories retrieved successfully.", tree))
		return
	}

	categories, err := h.service.GetCategories(r.Context(), userID, categoryType)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve categories")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Categories retrieved successfully.", categories))
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "categoryID")
	if !ok {
		return
	}

	category, err := h.service.GetCategory(r.Context(), id, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve category")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Category retrieved successfully.", category))
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "categoryID")
	if !ok {
		return
	}

	var update domain.CategoryUpdate
	if !h.decode(w, r, &update) {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, userID, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update category")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Category successfully updated.", category))
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "categoryID")
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id, userID); err != nil {
		h.serviceError(w, r, err, "Failed to delete category")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Category successfully deleted.", nil))
}
