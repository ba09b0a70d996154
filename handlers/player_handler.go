package handlers

import (
	"net/http"

	"github.com/pitchside/crease/models"
	"github.com/pitchside/crease/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(ps services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: ps}
}

// Create handles POST /players.
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var player models.Player
	if err := readJSON(w, r, &player); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.playerService.CreatePlayer(r.Context(), &player); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID handles GET /players/{playerID}. The payload carries the full
// career document: match history, totals, and the most recent summary.
func (h *PlayerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.GetPlayerByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListBySquad handles GET /squads/{squadID}/players.
func (h *PlayerHandler) ListBySquad(w http.ResponseWriter, r *http.Request) {
	squadID, err := idParam(r, "squadID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.playerService.ListPlayersBySquad(r.Context(), squadID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
