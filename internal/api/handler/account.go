package handler

import (
	"encoding/json"
	"net/http"

	"github.com/velatum/bellum/internal/api/middleware"
	"github.com/velatum/bellum/internal/api/request"
	"github.com/velatum/bellum/internal/api/response"
	"github.com/velatum/bellum/internal/services/identity"
)

// AccountHandler handles account-related endpoints
type AccountHandler struct {
	identityService *identity.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(identityService *identity.Service) *AccountHandler {
	return &AccountHandler{identityService: identityService}
}

// Create handles POST /api/v1/accounts
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	login, err := h.identityService.CreateAccount(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromLogin(login))
}

// Login handles POST /api/v1/accounts/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	login, err := h.identityService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromLogin(login))
}

// Logout handles POST /api/v1/accounts/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	login := middleware.GetLogin(r.Context())
	if login != nil {
		h.identityService.SignOut(login.Token)
	}
	response.NoContent(w)
}

// Me handles GET /api/v1/accounts/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	response.JSON(w, http.StatusOK, response.AccountFromModel(account))
}

// RequestPasswordReset handles POST /api/v1/accounts/password-reset
func (h *AccountHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	token, err := h.identityService.SendPasswordReset(r.Context(), req.Email)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PasswordResetResponse{Token: token})
}

// ConfirmPasswordReset handles POST /api/v1/accounts/password-reset/confirm
func (h *AccountHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.identityService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
