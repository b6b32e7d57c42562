package handlers

import (
	"net/http"

	"github.com/bpaddle/competition-engine/models"
	"github.com/bpaddle/competition-engine/services"
)

type MatchHandler struct {
	processor services.ProcessorService
}

func NewMatchHandler(processor services.ProcessorService) *MatchHandler {
	return &MatchHandler{processor: processor}
}

// SubmitResultHandler accepts a completed match result and returns the
// processing outcome. Replays of an already-recorded result return 200
// with duplicate set; contradictions return 409.
func (h *MatchHandler) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	var result models.MatchResult
	if err := readJSON(w, r, &result); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.processor.SubmitMatchResult(r.Context(), result)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if outcome.Duplicate {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, jsonResponse{"outcome": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
