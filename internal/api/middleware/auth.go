package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/velatum/bellum/internal/api/apierr"
	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/services/identity"
)

type contextKey string

const (
	accountContextKey contextKey = "account"
	loginContextKey   contextKey = "login"
)

// Auth creates authentication middleware
func Auth(identityService *identity.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			login, err := identityService.ValidateLogin(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			// Add login and account to context
			ctx := r.Context()
			ctx = context.WithValue(ctx, loginContextKey, login)
			ctx = context.WithValue(ctx, accountContextKey, &login.Account)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetAccount returns the authenticated account from the request context
func GetAccount(ctx context.Context) *model.Account {
	account, _ := ctx.Value(accountContextKey).(*model.Account)
	return account
}

// GetLogin returns the login from the request context
func GetLogin(ctx context.Context) *identity.Login {
	login, _ := ctx.Value(loginContextKey).(*identity.Login)
	return login
}

// MustGetAccount returns the authenticated account or panics
func MustGetAccount(ctx context.Context) *model.Account {
	account := GetAccount(ctx)
	if account == nil {
		panic("no account in context - auth middleware not applied?")
	}
	return account
}
