package handlers

import (
	"errors"
	"net/http"

	"github.com/pitchside/crease/models"
	"github.com/pitchside/crease/services"
)

type SquadHandler struct {
	squadService services.SquadService
}

func NewSquadHandler(ss services.SquadService) *SquadHandler {
	return &SquadHandler{squadService: ss}
}

// Create handles POST /squads.
func (h *SquadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var squad models.Squad
	if err := readJSON(w, r, &squad); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.squadService.CreateSquad(r.Context(), &squad); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"squad": squad}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID handles GET /squads/{squadID}.
func (h *SquadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "squadID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	squad, err := h.squadService.GetSquadByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"squad": squad}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTournament handles GET /tournaments/{tournamentID}/squads.
func (h *SquadHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	squads, err := h.squadService.ListSquadsByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"squads": squads}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadLogo handles POST /squads/{squadID}/logo.
func (h *SquadHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "squadID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("Content-Type header is required"))
		return
	}

	squad, err := h.squadService.UploadLogo(r.Context(), id, contentType, r.Body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"squad": squad}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
