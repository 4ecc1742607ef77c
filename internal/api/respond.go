// Package api holds the HTTP plumbing shared by every handler: the JSON
// envelope, path parameter validation, query parsing and the authenticated
// user carried in the request context.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type JSONResponder func(w http.ResponseWriter, status int, payload interface{})

type ErrorResponder func(w http.ResponseWriter, status int, message string, errors ...[]string)

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}

	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}

	RespondJSON(w, status, payload)
}

// Success builds the success envelope.
func Success(message string, data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"status":  "success",
		"message": message,
		"data":    data,
	}
}

func NotFoundHandler(w http.ResponseWriter, _ *http.Request) {
	RespondError(w, http.StatusNotFound, "Path not found")
}
