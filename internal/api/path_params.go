package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
)

type pathParamKey string

var notFoundMessages = map[string]string{
	"expenseID":       "Expense not found",
	"incomeID":        "Income not found",
	"investmentID":    "Investment not found",
	"productID":       "Financial product not found",
	"debtID":          "Debt not found",
	"categoryID":      "Category not found",
	"tagID":           "Tag not found",
	"paymentMethodID": "Payment method not found",
	"budgetID":        "Budget not found",
	"itemID":          "Budget item not found",
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(string(s[0])) + s[1:]
}

// NotFoundMessage is the 404 message used for the record named by a path parameter.
func NotFoundMessage(param string) string {
	if msg, ok := notFoundMessages[param]; ok {
		return msg
	}
	return "Resource not found"
}

// ValidatePathParamsMiddleware parses the named path parameters as UUIDs and
// stores them in the request context. A malformed id cannot name an existing
// record, so it is answered with 404.
func ValidatePathParamsMiddleware(respondError ErrorResponder, next http.Handler, params ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, param := range params {
			paramValue := r.PathValue(param)
			if paramValue == "" {
				respondError(w, http.StatusBadRequest, capitalizeFirstLetter(fmt.Sprintf("%s is required", param)))
				return
			}

			parsedUUID, err := uuid.Parse(paramValue)
			if err != nil {
				logging.FromContext(r.Context()).Debug("malformed path parameter", "param", param, "value", paramValue)
				respondError(w, http.StatusNotFound, NotFoundMessage(param))
				return
			}
			r = r.WithContext(WithPathUUID(r.Context(), param, parsedUUID))
		}
		next.ServeHTTP(w, r)
	})
}

func WithPathUUID(ctx context.Context, param string, id uuid.UUID) context.Context {
	return context.WithValue(ctx, pathParamKey(param), id)
}

// PathUUID returns a parameter validated by ValidatePathParamsMiddleware.
func PathUUID(r *http.Request, param string) (uuid.UUID, bool) {
	id, ok := r.Context().Value(pathParamKey(param)).(uuid.UUID)
	return id, ok
}
