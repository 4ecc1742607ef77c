package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/api"
)

const refreshCookiePath = "/api/refresh/token"

type Handler struct {
	authService  Service
	respondJSON  api.JSONResponder
	respondError api.ErrorResponder
}

func NewHandler(authService Service, respondJSON api.JSONResponder, respondError api.ErrorResponder) *Handler {
	if authService == nil || respondJSON == nil || respondError == nil {
		panic("auth handler dependencies must not be nil")
	}
	return &Handler{
		authService:  authService,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// SetRefreshCookie stores the refresh token in an http-only cookie scoped to
// the refresh endpoint.
func (h *Handler) SetRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Path:     refreshCookiePath,
		MaxAge:   h.authService.RefreshTTL(),
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmailOrLogin string `json:"email_or_login"`
		Password     string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" || req.EmailOrLogin == "" {
		h.respondError(w, http.StatusBadRequest, "Email/Login and Password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req.EmailOrLogin, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			h.respondError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, ErrInactiveUser):
			h.respondError(w, http.StatusUnauthorized, "Inactive user")
		default:
			h.respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if result.TwoFactorRequired {
		h.respondJSON(w, http.StatusOK, api.Success("Two-factor authentication required", map[string]string{
			"session_token": result.SessionToken,
		}))
		return
	}

	h.SetRefreshCookie(w, result.RefreshToken)
	h.respondJSON(w, http.StatusOK, api.Success("Login successful", map[string]string{
		"access_token": result.AccessToken,
		"token_type":   "bearer",
	}))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	h.respondJSON(w, http.StatusOK, api.Success("Logout successful", nil))
}

func (h *Handler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
		Code         string `json:"code"`
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.SessionToken == "" || req.Code == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.VerifyTwoFactor(r.Context(), req.SessionToken, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSessionToken), errors.Is(err, ErrExpiredSessionToken),
			errors.Is(err, ErrInvalid2FACode), errors.Is(err, ErrInactiveUser), errors.Is(err, ErrUserNotFound):
			h.respondError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, ErrUser2FANotEnabled):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "Could not verify two-factor authentication")
		}
		return
	}

	h.SetRefreshCookie(w, result.RefreshToken)
	h.respondJSON(w, http.StatusOK, api.Success("Login successful", map[string]string{
		"access_token": result.AccessToken,
		"token_type":   "bearer",
	}))
}

func (h *Handler) HandleRegisterTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	otpURI, secret, err := h.authService.RegisterTwoFactor(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUser2FAAlreadyEnabled):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUserNotFound):
			h.respondError(w, http.StatusNotFound, "User not found")
		default:
			h.respondError(w, http.StatusInternalServerError, "Could not register two-factor authentication")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, api.Success("Two-factor authentication initiated. Please verify to enable.", map[string]string{
		"otp_uri": otpURI,
		"secret":  secret,
	}))
}

func (h *Handler) HandleVerifyTwoFactorRegistration(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authService.VerifyTwoFactorRegistration(r.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalid2FACode):
			h.respondError(w, http.StatusUnauthorized, "Invalid 2fa code")
		case errors.Is(err, ErrUser2FAAlreadyEnabled), errors.Is(err, ErrTwoFactorNotRegistered):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUserNotFound):
			h.respondError(w, http.StatusNotFound, "User not found")
		default:
			h.respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, api.Success("Two-factor authentication enabled", nil))
}

func (h *Handler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authService.DisableTwoFactor(r.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrUser2FANotEnabled):
			h.respondError(w, http.StatusBadRequest, "Two-factor authentication is not enabled")
		case errors.Is(err, ErrInvalid2FACode):
			h.respondError(w, http.StatusUnauthorized, "Invalid 2FA code")
		case errors.Is(err, ErrUserNotFound):
			h.respondError(w, http.StatusNotFound, "User not found")
		default:
			h.respondError(w, http.StatusInternalServerError, "Could not disable two-factor authentication")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, api.Success("Two-factor authentication disabled successfully", nil))
}

func (h *Handler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	accessToken, newRefreshToken, err := h.authService.RefreshAccessToken(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.respondError(w, http.StatusUnauthorized, ErrInvalidJWTRefreshToken.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	h.SetRefreshCookie(w, newRefreshToken)
	h.respondJSON(w, http.StatusOK, api.Success("Token refreshed", map[string]string{
		"access_token": accessToken,
		"token_type":   "bearer",
	}))
}
