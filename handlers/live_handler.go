package handlers

import (
	"errors"
	"net/http"

	"github.com/rachao-basket/scoreboard/repositories"
)

// LiveHandler serves the shared live snapshot directly from storage, so
// read-only viewers can poll without touching the game loop.
type LiveHandler struct {
	liveRepo repositories.LiveGameRepository
}

func NewLiveHandler(lr repositories.LiveGameRepository) *LiveHandler {
	return &LiveHandler{liveRepo: lr}
}

func (h *LiveHandler) GetLive(w http.ResponseWriter, r *http.Request) {
	live, err := h.liveRepo.Get(r.Context())
	if err != nil {
		if errors.Is(err, repositories.ErrLiveGameNotFound) {
			notFoundResponse(w, r)
			return
		}
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"live": live}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reset stamps the shared reset marker. Every running board picks it up on
// its next poll and returns to the quick-game defaults.
func (h *LiveHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.liveRepo.MarkReset(r.Context()); err != nil {
		if errors.Is(err, repositories.ErrLiveGameNotFound) {
			notFoundResponse(w, r)
			return
		}
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "reset"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
