package interfaces

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type PaymentServiceInterface interface {
	CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error
	GetPaymentMethod(ctx context.Context, id uuid.UUID, userID string) (*domain.PaymentMethod, error)
	GetPaymentMethods(ctx context.Context, userID string, filter domain.PaymentMethodFilter) ([]domain.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, id uuid.UUID, userID string, update domain.PaymentMethodUpdate) (*domain.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id uuid.UUID, userID string) error
}

type PaymentHandler struct {
	responder
	service PaymentServiceInterface
}

func NewPaymentHandler(service PaymentServiceInterface, respondJSON api.JSONResponder, respondError api.ErrorResponder) *PaymentHandler {
	if service == nil {
		panic("payment service must not be nil")
	}
	return &PaymentHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *PaymentHandler) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	method := domain.PaymentMethod{IsActive: true}
	if !h.decode(w, r, &method) {
		return
	}
	method.UserID = userID

	if err := h.service.CreatePaymentMethod(r.Context(), &method); err != nil {
		h.serviceError(w, r, err, "Failed to create payment method")
		return
	}
	h.respondJSON(w, http.StatusCreated, api.Success("Payment method successfully created.", method))
}

func (h *PaymentHandler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	isActive, ok := h.queryBool(w, r, "is_active")
	if !ok {
		return
	}

	filter := domain.PaymentMethodFilter{
		PaymentType: api.QueryString(r, "payment_type"),
		IsActive:    isActive,
	}
	methods, err := h.service.GetPaymentMethods(r.Context(), userID, filter)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve payment methods")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Payment methods retrieved successfully.", methods))
}

func (h *PaymentHandler) GetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "paymentMethodID")
	if !ok {
		return
	}

	method, err := h.service.GetPaymentMethod(r.Context(), id, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve payment method")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Payment method retrieved successfully.", method))
}

func (h *PaymentHandler) UpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "paymentMethodID")
	if !ok {
		return
	}

	var update domain.PaymentMethodUpdate
	if !h.decode(w, r, &update) {
		return
	}

	method, err := h.service.UpdatePaymentMethod(r.Context(), id, userID, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update payment method")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Payment method successfully updated.", method))
}

func (h *PaymentHandler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "paymentMethodID")
	if !ok {
		return
	}

	if err := h.service.DeletePaymentMethod(r.Context(), id, userID); err != nil {
		h.serviceError(w, r, err, "Failed to delete payment method")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Payment method successfully deleted.", nil))
}
