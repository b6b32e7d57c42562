package handlers

import (
	"errors"
	"net/http"

	"github.com/bpaddle/competition-engine/models"
	"github.com/bpaddle/competition-engine/services"
	"github.com/go-chi/chi/v5"
)

type RatingHandler struct {
	ratings services.RatingService
}

func NewRatingHandler(ratings services.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// GetRatingHandler returns the player's rating in one discipline. A
// player never rated in the discipline gets the seeded default.
func (h *RatingHandler) GetRatingHandler(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	if playerID == "" {
		badRequestResponse(w, r, errors.New("missing player id"))
		return
	}
	discipline := models.Discipline(chi.URLParam(r, "discipline"))
	if !discipline.Valid() {
		badRequestResponse(w, r, errors.New("unrecognized discipline"))
		return
	}

	rating, err := h.ratings.Get(r.Context(), playerID, discipline)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rating": rating}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
