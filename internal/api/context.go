package api

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "userID"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// RequireUserID returns the authenticated user or answers 401 and returns "".
func RequireUserID(w http.ResponseWriter, r *http.Request, respondError ErrorResponder) string {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return ""
	}
	return userID
}
