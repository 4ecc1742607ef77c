package investments

import (
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/api"
	products "github.com/sebuszqo/FinanceLedger/internal/investment/product"
)

type ProductHandler struct {
	responder
	service products.Service
}

func NewProductHandler(service products.Service, respondJSON api.JSONResponder, respondError api.ErrorResponder) *ProductHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("financial product handler dependencies must not be nil")
	}
	return &ProductHandler{
		responder: responder{respondJSON: respondJSON, respondError: respondError},
		service:   service,
	}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	product := products.Product{IsActive: true}
	if !h.decode(w, r, &product) {
		return
	}
	product.UserID = userID

	if err := h.service.CreateProduct(r.Context(), &product); err != nil {
		h.serviceError(w, r, err, "Failed to create financial product")
		return
	}
	h.respondJSON(w, http.StatusCreated, api.Success("Financial product successfully created.", product))
}

func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	filter := products.Filter{
		ProductType: api.QueryString(r, "product_type"),
		Institution: api.QueryString(r, "institution"),
	}
	var ok bool
	if filter.Page, ok = h.page(w, r); !ok {
		return
	}
	if filter.IsActive, ok = h.queryBool(w, r, "is_active"); !ok {
		return
	}

	list, err := h.service.GetProducts(r.Context(), userID, filter)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve financial products")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Financial products retrieved successfully.", list))
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "productID")
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve financial product")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Financial product retrieved successfully.", product))
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "productID")
	if !ok {
		return
	}

	var update products.ProductUpdate
	if !h.decode(w, r, &update) {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, userID, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update financial product")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Financial product successfully updated.", product))
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "productID")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id, userID); err != nil {
		h.serviceError(w, r, err, "Failed to delete financial product")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Financial product successfully deleted.", nil))
}

func (h *ProductHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID, r.URL.Query().Get("group_by"))
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve financial product summary")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Financial product summary retrieved successfully.", summary))
}

func (h *ProductHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve financial product balance")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Financial product balance retrieved successfully.", balance))
}
