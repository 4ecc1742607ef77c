package interfaces

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceError_LogsThroughRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil)).With("request_id", "req-42")

	handler := NewExpenseHandler(&mockExpenseService{err: errors.New("pq: relation missing")}, api.RespondJSON, api.RespondError)
	req := newRequest(t, http.MethodGet, "/expenses", nil)
	req = req.WithContext(logging.WithLogger(req.Context(), logger))

	rr := httptest.NewRecorder()
	handler.GetExpenses(rr, req)
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "Failed to retrieve expenses", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "pq: relation missing", entry["error"])
}
