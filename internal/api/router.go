package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/velatum/bellum/internal/api/handler"
	apimiddleware "github.com/velatum/bellum/internal/api/middleware"
	"github.com/velatum/bellum/internal/middleware"
	"github.com/velatum/bellum/internal/services/identity"
	"github.com/velatum/bellum/internal/services/roster"
	"github.com/velatum/bellum/internal/services/session"
	"github.com/velatum/bellum/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	IdentityService *identity.Service
	SessionService  *session.Service
	RosterService   *roster.Service
	HubManager      *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.IdentityService)
	sessionHandler := handler.NewSessionHandler(cfg.SessionService, cfg.RosterService, cfg.HubManager)
	assassinHandler := handler.NewAssassinHandler()

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.IdentityService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware. Logging runs outermost so
	// the recovery middleware sees the request ID it assigns.
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Account routes (no auth required for sign-up/login/reset)
	api.HandleFunc("/accounts", accountHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/accounts/password-reset", accountHandler.RequestPasswordReset).Methods(http.MethodPost)
	api.HandleFunc("/accounts/password-reset/confirm", accountHandler.ConfirmPasswordReset).Methods(http.MethodPost)

	// Protected account routes
	accountProtected := api.PathPrefix("/accounts").Subrouter()
	accountProtected.Use(authMiddleware)
	accountProtected.HandleFunc("/me", accountHandler.Me).Methods(http.MethodGet)
	accountProtected.HandleFunc("/logout", accountHandler.Logout).Methods(http.MethodPost)

	// Session routes (all require auth)
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{name}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{name}/join", sessionHandler.Join).Methods(http.MethodPost)
	sessions.HandleFunc("/{name}/assassin", sessionHandler.SelectAssassin).Methods(http.MethodPost)
	sessions.HandleFunc("/{name}/events", sessionHandler.Events).Methods(http.MethodGet)

	// Assassin roster routes (static data, no auth)
	api.HandleFunc("/assassins", assassinHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/assassins/{id}", assassinHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
