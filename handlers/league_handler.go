package handlers

import (
	"errors"
	"net/http"

	"github.com/bpaddle/competition-engine/services"
	"github.com/go-chi/chi/v5"
)

type LeagueHandler struct {
	standings services.StandingsService
}

func NewLeagueHandler(standings services.StandingsService) *LeagueHandler {
	return &LeagueHandler{standings: standings}
}

// GetStandingsHandler returns the raw accumulated rows without ranking.
func (h *LeagueHandler) GetStandingsHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	if leagueID == "" {
		badRequestResponse(w, r, errors.New("missing league id"))
		return
	}

	league, rows, err := h.standings.GetStandings(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league, "standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRankingHandler returns the standings ordered by the tie-break
// chain with ranks assigned.
func (h *LeagueHandler) GetRankingHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	if leagueID == "" {
		badRequestResponse(w, r, errors.New("missing league id"))
		return
	}

	ranked, err := h.standings.GetRanking(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ranking": ranked}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// QualifyPlayoffsHandler closes the regular season and returns the new
// playoff bracket. A second call returns 409.
func (h *LeagueHandler) QualifyPlayoffsHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	if leagueID == "" {
		badRequestResponse(w, r, errors.New("missing league id"))
		return
	}

	tournament, err := h.standings.QualifyPlayoffs(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
