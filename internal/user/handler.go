package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
)

// TokenIssuer creates the access and refresh tokens for a freshly registered user.
type TokenIssuer interface {
	IssueTokens(ctx context.Context, user *User) (accessToken, refreshToken string, err error)
}

// SessionCookie attaches the refresh token to a response.
type SessionCookie func(w http.ResponseWriter, refreshToken string)

type Handler struct {
	userService  Service
	tokens       TokenIssuer
	setCookie    SessionCookie
	respondJSON  api.JSONResponder
	respondError api.ErrorResponder
}

func NewHandler(userService Service, tokens TokenIssuer, setCookie SessionCookie, respondJSON api.JSONResponder, respondError api.ErrorResponder) *Handler {
	if userService == nil || tokens == nil || setCookie == nil || respondJSON == nil || respondError == nil {
		panic("user handler dependencies must not be nil")
	}
	return &Handler{
		userService:  userService,
		tokens:       tokens,
		setCookie:    setCookie,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		if IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Could not register user")
		return
	}

	accessToken, refreshToken, err := h.tokens.IssueTokens(r.Context(), user)
	if err != nil {
		logging.FromContext(r.Context()).Error("could not issue tokens after registration", "user_id", user.ID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "Could not register user")
		return
	}
	h.setCookie(w, refreshToken)

	h.respondJSON(w, http.StatusCreated, api.Success("User registered successfully.", map[string]string{
		"user_id":      user.ID,
		"access_token": accessToken,
		"token_type":   "bearer",
	}))
}

func (h *Handler) HandleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Could not fetch user data")
		return
	}

	h.respondJSON(w, http.StatusOK, api.Success("Profile retrieved successfully.", user))
}

func (h *Handler) HandleUpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	var req ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == nil && req.Username == nil && req.FullName == nil {
		h.respondError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		switch {
		case IsValidationError(err):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUserNotFound):
			h.respondError(w, http.StatusNotFound, "User not found")
		default:
			h.respondError(w, http.StatusInternalServerError, "Could not update profile")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, api.Success("Profile updated successfully.", user))
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.userService.ChangePasswordWithOldPassword(r.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			h.respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrInvalidOldPassword):
			h.respondError(w, http.StatusUnauthorized, "Invalid old password")
		case errors.Is(err, ErrPasswordTooShort):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			logging.FromContext(r.Context()).Error("could not change password", "user_id", userID, "error", err)
			h.respondError(w, http.StatusInternalServerError, "Could not change password")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, api.Success("Password changed successfully.", nil))
}
