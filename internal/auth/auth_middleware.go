package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
)

const refreshCookieName = "refresh_token"

func (s *service) JWTAccessTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.RespondError(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				api.RespondError(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			userID, err := s.jwtManager.ValidateAccessToken(tokenString)
			if err != nil {
				api.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			existingUser, err := s.lookupUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					api.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}
				api.RespondError(w, http.StatusInternalServerError, ErrInternalError.Error())
				return
			}
			if !existingUser.IsActive {
				api.RespondError(w, http.StatusUnauthorized, "Inactive user")
				return
			}

			logging.SetUserID(r.Context(), userID)
			ctx := api.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *service) JWTRefreshTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(refreshCookieName)
			if err != nil || cookie.Value == "" {
				api.RespondError(w, http.StatusUnauthorized, "Refresh token is required")
				return
			}
			tokenString := cookie.Value

			userID, err := s.jwtManager.ExtractUserIDFromRefreshToken(tokenString)
			if err != nil {
				if errors.Is(err, ErrExpiredJWTToken) {
					api.RespondError(w, http.StatusUnauthorized, ErrExpiredJWTToken.Error())
					return
				}
				api.RespondError(w, http.StatusUnauthorized, ErrInvalidJWTRefreshToken.Error())
				return
			}

			existingUser, err := s.lookupUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					api.RespondError(w, http.StatusUnauthorized, ErrInvalidJWTRefreshToken.Error())
					return
				}
				api.RespondError(w, http.StatusInternalServerError, ErrInternalError.Error())
				return
			}
			if !existingUser.IsActive {
				api.RespondError(w, http.StatusUnauthorized, "Inactive user")
				return
			}

			if err := s.jwtManager.ValidateRefreshToken(tokenString, existingUser.HashToken); err != nil {
				api.RespondError(w, http.StatusUnauthorized, ErrInvalidJWTRefreshToken.Error())
				return
			}

			logging.SetUserID(r.Context(), userID)
			ctx := api.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
