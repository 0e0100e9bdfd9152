package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/velatum/bellum/internal/api/middleware"
	"github.com/velatum/bellum/internal/api/request"
	"github.com/velatum/bellum/internal/api/response"
	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/services/roster"
	"github.com/velatum/bellum/internal/services/session"
	"github.com/velatum/bellum/internal/sse"
)

// SessionHandler handles session-related endpoints
type SessionHandler struct {
	sessionService *session.Service
	rosterService  *roster.Service
	hubManager     *sse.HubManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *session.Service, rosterService *roster.Service, hubManager *sse.HubManager) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		rosterService:  rosterService,
		hubManager:     hubManager,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	created, err := h.sessionService.Create(r.Context(), session.CreateConfig{
		GameName:      model.SessionName(req.GameName),
		MaxPlayers:    req.MaxPlayers,
		GameType:      model.GameType(req.GameType),
		GameRounds:    model.GameRounds(req.GameRounds),
		TurnTimeLimit: req.TurnTimeLimit,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreatedSessionFromModel(created))
}

// Get handles GET /api/v1/sessions/{name}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := model.SessionName(mux.Vars(r)["name"])

	found, err := h.sessionService.Get(r.Context(), name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(found))
}

// Join handles POST /api/v1/sessions/{name}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	name := model.SessionName(mux.Vars(r)["name"])

	var req request.JoinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.checkAccessKey(r, name, req.AccessKey); err != nil {
		WriteError(w, err)
		return
	}

	joined, err := h.rosterService.Join(r.Context(), name, account.DisplayName())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(joined))
}

// SelectAssassin handles POST /api/v1/sessions/{name}/assassin
func (h *SessionHandler) SelectAssassin(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	name := model.SessionName(mux.Vars(r)["name"])

	var req request.SelectAssassinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.checkAccessKey(r, name, req.AccessKey); err != nil {
		WriteError(w, err)
		return
	}

	updated, err := h.rosterService.SelectAssassin(r.Context(), name, account.DisplayName(), model.AssassinID(req.AssassinID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(updated))
}

// Events handles GET /api/v1/sessions/{name}/events (SSE)
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	name := model.SessionName(mux.Vars(r)["name"])

	current, err := h.sessionService.Get(r.Context(), name)
	if err != nil {
		WriteError(w, err)
		return
	}

	// The hub lives beyond this request, so its store subscription must
	// not be bound to the request context. Registration can lose a race
	// against empty-hub cleanup closing the hub; a fresh lookup then
	// returns a live one.
	for {
		hub, err := h.hubManager.GetOrCreateHub(context.WithoutCancel(r.Context()), name)
		if err != nil {
			WriteError(w, err)
			return
		}
		if sse.ServeSSE(w, r, hub, account.DisplayName(), current) {
			break
		}
	}

	// Tear down hubs whose last client just left so idle sessions do not
	// hold store subscriptions open
	h.hubManager.CleanupEmptyHubs()
}

// checkAccessKey verifies the session's access key before a roster
// mutation. The key is fixed at creation, so reading it outside the
// mutation's transaction is safe.
func (h *SessionHandler) checkAccessKey(r *http.Request, name model.SessionName, key string) error {
	found, err := h.sessionService.Get(r.Context(), name)
	if err != nil {
		return err
	}
	if found.AccessKey != key {
		return model.ErrInvalidAccessKey
	}
	return nil
}
