package logging

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

const requestStateKey contextKey = "request_state"

type requestState struct {
	userID string
}

// SetUserID records the authenticated user on the request so the completion
// log line carries it. It is a no-op outside RequestMiddleware.
func SetUserID(ctx context.Context, userID string) {
	if st, ok := ctx.Value(requestStateKey).(*requestState); ok {
		st.userID = userID
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestMiddleware tags every request with a request id, stores a logger
// carrying it in the context and logs the outcome once the handler returns.
func RequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		logger := slog.Default().With("request_id", requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		st := &requestState{}
		ctx := context.WithValue(WithLogger(r.Context(), logger), requestStateKey, st)

		next.ServeHTTP(rec, r.WithContext(ctx))

		level := slog.LevelInfo
		switch {
		case rec.status >= 500:
			level = slog.LevelError
		case rec.status >= 400:
			level = slog.LevelWarn
		}
		logger.Log(r.Context(), level, "HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"user_id", st.userID,
			"client_ip", r.RemoteAddr,
		)
	})
}
