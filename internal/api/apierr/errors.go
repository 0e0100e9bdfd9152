package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/services/identity"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeInvalidResetToken  = "INVALID_RESET_TOKEN"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSessionExists      = "SESSION_EXISTS"
	CodeSessionFull        = "SESSION_FULL"
	CodeInvalidAccessKey   = "INVALID_ACCESS_KEY"
	CodeAssassinNotFound   = "ASSASSIN_NOT_FOUND"
	CodeUpdateConflict     = "UPDATE_CONFLICT"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSessionExists):
		return &httpError{http.StatusConflict, APIError{CodeSessionExists, "A session with this name already exists"}}
	case errors.Is(err, model.ErrSessionFull):
		return &httpError{http.StatusConflict, APIError{CodeSessionFull, "Session is full"}}
	case errors.Is(err, model.ErrEmptySessionName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Session name must not be empty"}}
	case errors.Is(err, model.ErrInvalidMaxPlayers):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Max players must be between 2 and 5"}}
	case errors.Is(err, model.ErrInvalidAccessKey):
		return &httpError{http.StatusForbidden, APIError{CodeInvalidAccessKey, "Invalid access key"}}
	case errors.Is(err, model.ErrAssassinNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAssassinNotFound, "Assassin not found"}}
	case errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Account not found"}}
	case errors.Is(err, model.ErrUpdateConflict):
		return &httpError{http.StatusConflict, APIError{CodeUpdateConflict, "Session is being updated concurrently, try again"}}
	case errors.Is(err, model.ErrStoreUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStoreUnavailable, "Store unavailable"}}

	// Map identity errors
	case errors.Is(err, identity.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid email or password"}}
	case errors.Is(err, identity.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, identity.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{CodeEmailExists, "An account with this email already exists"}}
	case errors.Is(err, identity.ErrInvalidEmail):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidEmail, "Invalid email address"}}
	case errors.Is(err, identity.ErrWeakPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeWeakPassword, "Password must be at least 6 characters"}}
	case errors.Is(err, identity.ErrInvalidResetToken):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidResetToken, "Invalid or expired reset token"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
