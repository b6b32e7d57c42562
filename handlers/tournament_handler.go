package handlers

import (
	"errors"
	"net/http"

	"github.com/bpaddle/competition-engine/models"
	"github.com/bpaddle/competition-engine/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	tournaments services.TournamentService
}

func NewTournamentHandler(tournaments services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournaments: tournaments}
}

type createTournamentRequest struct {
	Name       string            `json:"name"`
	Discipline models.Discipline `json:"discipline"`
	Seeding    []string          `json:"seeding"`
}

func (h *TournamentHandler) CreateTournamentHandler(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.Name == "" {
		badRequestResponse(w, r, errors.New("name is required"))
		return
	}

	tournament, err := h.tournaments.Create(r.Context(), req.Name, req.Discipline, req.Seeding)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	if tournamentID == "" {
		badRequestResponse(w, r, errors.New("missing tournament id"))
		return
	}

	view, err := h.tournaments.GetFull(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
