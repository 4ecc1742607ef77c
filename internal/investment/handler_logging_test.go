package investments

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceError_LogsThroughRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil)).With("request_id", "req-7")

	handler := NewInvestmentHandler(&mockInvestmentService{err: errors.New("connection reset")}, api.RespondJSON, api.RespondError)
	req := newRequest(t, http.MethodDelete, "/investments/x", nil)
	req.SetPathValue("investmentID", uuid.NewString())
	req = req.WithContext(logging.WithLogger(req.Context(), logger))

	rr := httptest.NewRecorder()
	handler.DeleteInvestment(rr, req)
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Failed to delete investment", entry["msg"])
	assert.Equal(t, "req-7", entry["request_id"])
	assert.Equal(t, "connection reset", entry["error"])
}
