package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/velatum/bellum/internal/api/response"
	"github.com/velatum/bellum/internal/model"
)

// AssassinHandler serves the static assassin roster
type AssassinHandler struct{}

// NewAssassinHandler creates a new assassin handler
func NewAssassinHandler() *AssassinHandler {
	return &AssassinHandler{}
}

// List handles GET /api/v1/assassins
func (h *AssassinHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.AssassinsFromModel(model.Roster()))
}

// Get handles GET /api/v1/assassins/{id}
func (h *AssassinHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.AssassinID(mux.Vars(r)["id"])

	assassin, err := model.FindAssassin(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AssassinFromModel(assassin))
}
