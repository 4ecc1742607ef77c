package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/finance/application"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
	"github.com/sebuszqo/FinanceLedger/internal/pagination"
)

var notFoundErrors = []struct {
	err     error
	message string
}{
	{domain.ErrCategoryNotFound, "Category not found"},
	{application.ErrParentCategoryNotFound, "Parent category not found"},
	{domain.ErrTagNotFound, "Tag not found"},
	{domain.ErrPaymentMethodNotFound, "Payment method not found"},
	{domain.ErrExpenseNotFound, "Expense not found"},
	{domain.ErrIncomeNotFound, "Income not found"},
	{domain.ErrBudgetNotFound, "Budget not found"},
	{domain.ErrBudgetItemNotFound, "Budget item not found"},
}

// responder carries the injected response writers shared by every handler.
type responder struct {
	respondJSON  api.JSONResponder
	respondError api.ErrorResponder
}

func newResponder(respondJSON api.JSONResponder, respondError api.ErrorResponder) responder {
	if respondJSON == nil || respondError == nil {
		panic("response functions must not be nil")
	}
	return responder{respondJSON: respondJSON, respondError: respondError}
}

// serviceError answers err with 400 for validation problems, 404 for missing
// records and 500 with fallback otherwise.
func (h responder) serviceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validationErrors *financeErrors.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
		return
	}
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

func (h responder) dateRange(w http.ResponseWriter, r *http.Request) (domain.DateRange, bool) {
	start, end, err := api.QueryDateRange(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return domain.DateRange{}, false
	}
	return domain.DateRange{Start: start, End: end}, true
}

func (h responder) queryUUID(w http.ResponseWriter, r *http.Request, key string) (*uuid.UUID, bool) {
	id, err := api.QueryUUID(r, key)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid "+key+" value")
		return nil, false
	}
	return id, true
}

func (h responder) queryBool(w http.ResponseWriter, r *http.Request, key string) (*bool, bool) {
	b, err := api.QueryBool(r, key)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid "+key+" value")
		return nil, false
	}
	return b, true
}

// pathID reads a UUID placed in the context by api.ValidatePathParamsMiddleware,
// falling back to parsing the raw path value.
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
